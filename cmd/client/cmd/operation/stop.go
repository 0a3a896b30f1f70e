// cmd/client/cmd/operation/stop.go
package operation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"minetrack/cmd/client/cmd/types"
	"minetrack/internal/app/client"
)

var stopDistance float64

var StopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Остановить текущую операцию",
	Long: `Остановка текущей активной операции.

Для операции, еще не подтвержденной сервером, остановка записывается
локально и уходит на сервер при синхронизации вслед за запуском.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		op, err := app.Operations.StopOperation(ctx, stopDistance)
		if err != nil {
			if errors.Is(err, client.ErrNoActiveOperation) {
				return fmt.Errorf("нет активной операции")
			}
			return fmt.Errorf("ошибка остановки операции: %w", err)
		}

		fmt.Println("✅ Операция остановлена.")
		if stopDistance > 0 {
			fmt.Printf("Расстояние: %.2f км\n", stopDistance)
		}
		if !op.StartTime.IsZero() {
			fmt.Printf("Длительность: %v\n", time.Since(op.StartTime).Round(time.Second))
		}

		return nil
	},
}

func init() {
	StopCmd.Flags().Float64Var(&stopDistance, "distance", 0, "Перевезенное расстояние, км")
}
