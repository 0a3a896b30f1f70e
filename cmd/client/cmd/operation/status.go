// cmd/client/cmd/operation/status.go
package operation

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"minetrack/cmd/client/cmd/types"
	"minetrack/internal/app/client"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Показать текущее состояние",
	Long:  `Текущая активная операция, очередь неотправленных записей и время последней синхронизации.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		fmt.Println("=== Состояние Minetrack ===")
		fmt.Println()

		if app.Oracle.IsOnline(cmd.Context()) {
			color.Green("Сеть: доступна")
		} else {
			color.Yellow("Сеть: недоступна, работа офлайн")
		}

		if account, ok := app.Session.Account(); ok {
			fmt.Printf("Оператор: %s (%s)\n", account.Name, account.Email)
		} else {
			color.Yellow("Вход не выполнен. Запустите: minetrack auth login")
		}
		fmt.Println()

		if active, ok := app.State.Active(); ok {
			fmt.Println("Активная операция:")
			fmt.Printf("  Техника:  %s\n", active.Equipment.Name)
			fmt.Printf("  Работа:   %s\n", active.Operation.Activity)
			started := time.UnixMilli(active.StartTime)
			fmt.Printf("  Запущена: %s (%v назад)\n",
				started.Format("2006-01-02 15:04:05"),
				time.Since(started).Round(time.Second))
			if active.RepeatCount > 1 {
				fmt.Printf("  Повторов: %d\n", active.RepeatCount)
			}
			if strings.HasPrefix(active.Operation.ID, "local_") {
				color.Yellow("  Операция еще не подтверждена сервером.")
			}
		} else {
			fmt.Println("Активной операции нет.")
		}
		fmt.Println()

		pending, err := app.Queue.Count()
		if err != nil {
			return fmt.Errorf("ошибка чтения очереди: %w", err)
		}
		if pending > 0 {
			color.Yellow("Неотправленных операций: %d", pending)
		} else {
			fmt.Println("Очередь пуста.")
		}

		stale, err := app.Queue.Stale(app.Config.MaxSyncAttempts)
		if err == nil && len(stale) > 0 {
			color.Red("Зависших записей (исчерпаны попытки): %d", len(stale))
		}

		last, ok, err := app.Sync.LastSyncTime()
		if err != nil {
			return fmt.Errorf("ошибка чтения времени синхронизации: %w", err)
		}
		if ok {
			fmt.Printf("Последняя синхронизация: %s\n", last.Format("2006-01-02 15:04:05"))
		} else {
			fmt.Println("Синхронизация еще не выполнялась.")
		}

		return nil
	},
}
