// cmd/client/cmd/auth/logout.go
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"minetrack/cmd/client/cmd/types"
	"minetrack/internal/app/client"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из учетной записи",
	Long: `Выход из учетной записи оператора.

Неотправленные операции и кэш учетных данных сохраняются: после
повторного входа синхронизация продолжится с того же места.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if !app.Session.IsAuthenticated() {
			fmt.Println("Вход не выполнен.")
			return nil
		}

		if err := app.Logout(); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}

		fmt.Println("✅ Выход выполнен.")
		if pending, _ := app.Queue.Count(); pending > 0 {
			fmt.Printf("⚠️  Неотправленных операций: %d. Они будут отправлены после следующего входа.\n", pending)
		}

		return nil
	},
}
