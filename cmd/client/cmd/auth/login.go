// cmd/client/cmd/auth/login.go
package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"minetrack/cmd/client/cmd/types"
	"minetrack/internal/app/client"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в учетную запись",
	Long: `Вход в учетную запись оператора.

Без сети вход выполняется по кэшу учетных данных последнего успешного
онлайн-входа. Локально записанные операции досылаются на сервер позже.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Получаем приложение из контекста
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		fmt.Println("=== Вход в Minetrack ===")
		fmt.Println()

		fmt.Print("Email: ")
		var email string
		_, _ = fmt.Scanln(&email)

		fmt.Print("Пароль: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("ошибка чтения пароля: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		fmt.Println("Вход...")
		account, err := app.Login(ctx, email, string(password))
		if err != nil {
			return fmt.Errorf("ошибка входа: %w", err)
		}

		fmt.Println()
		if app.Oracle.IsOnline(ctx) {
			fmt.Printf("✅ Добро пожаловать, %s!\n", account.Name)
		} else {
			fmt.Printf("✅ Добро пожаловать, %s!\n", account.Name)
			fmt.Println("⚠️  Вход выполнен офлайн: операции будут отправлены при появлении сети.")
		}

		if pending, _ := app.Queue.Count(); pending > 0 {
			fmt.Printf("Неотправленных операций: %d. Запустите: minetrack sync\n", pending)
		}

		return nil
	},
}
