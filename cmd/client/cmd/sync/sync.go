// cmd/client/cmd/sync/sync.go
package sync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"minetrack/cmd/client/cmd/types"
	"minetrack/internal/app/client"
)

var (
	syncStatus bool
	forceSync  bool
	syncWatch  bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с сервером",
	Long: `Отправка локально записанных операций на сервер.

Записи отправляются в порядке создания. Неудачные попытки не прерывают
проход: запись остается в очереди до следующего раза.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		if syncStatus {
			return showStatus(cmd.Context(), app)
		}

		if syncWatch {
			return runWatch(cmd.Context(), app)
		}

		return runSync(cmd.Context(), app)
	},
}

// runWatch держит процесс с фоновой синхронизацией по таймеру: первая
// попытка сразу, дальше по интервалу из конфигурации, до Ctrl+C.
func runWatch(ctx context.Context, app *client.App) error {
	if !app.Session.IsAuthenticated() {
		return fmt.Errorf("требуется вход: minetrack auth login")
	}

	watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Фоновая синхронизация каждые %d мин. Ctrl+C для выхода.\n", app.Config.SyncInterval)
	app.Sync.StartAutoSync(watchCtx)

	<-watchCtx.Done()
	app.Sync.StopAutoSync()
	fmt.Println()
	fmt.Println("Фоновая синхронизация остановлена.")
	return nil
}

func runSync(ctx context.Context, app *client.App) error {
	fmt.Println("=== Синхронизация операций ===")

	if !app.Session.IsAuthenticated() {
		return fmt.Errorf("требуется вход: minetrack auth login")
	}

	if !forceSync && !app.Sync.ShouldSync() {
		last, _, _ := app.Sync.LastSyncTime()
		fmt.Printf("Синхронизация выполнялась недавно (%s). Принудительно: --force\n",
			last.Format("2006-01-02 15:04:05"))
		return nil
	}

	pending, err := app.Queue.Count()
	if err != nil {
		return fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	if pending == 0 {
		fmt.Println("Очередь пуста, отправлять нечего.")
		return nil
	}

	fmt.Printf("Записей в очереди: %d\n", pending)
	fmt.Println("Отправка...")

	syncCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	start := time.Now()
	result, err := app.Sync.SyncToServer(syncCtx)
	if err != nil {
		if errors.Is(err, client.ErrSyncInProgress) {
			color.Yellow("Синхронизация уже идет, повторите позже.")
			return nil
		}
		return fmt.Errorf("ошибка синхронизации: %w", err)
	}

	fmt.Println()
	color.Green("✅ Синхронизация завершена за %v", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Отправлено: %d\n", result.Synced)
	if result.Failed > 0 {
		color.Yellow("Не отправлено: %d (останутся в очереди)", result.Failed)
	}

	if stale, err := app.Queue.Stale(app.Config.MaxSyncAttempts); err == nil && len(stale) > 0 {
		color.Red("Зависших записей: %d. Они больше не отправляются автоматически.", len(stale))
	}

	return nil
}

func showStatus(ctx context.Context, app *client.App) error {
	fmt.Println("=== Статус синхронизации ===")

	if app.Oracle.IsOnline(ctx) {
		color.Green("Сеть: доступна")
	} else {
		color.Yellow("Сеть: недоступна")
	}

	pending, err := app.Queue.Count()
	if err != nil {
		return fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	fmt.Printf("Записей в очереди: %d\n", pending)

	last, ok, err := app.Sync.LastSyncTime()
	if err != nil {
		return fmt.Errorf("ошибка чтения времени синхронизации: %w", err)
	}
	if ok {
		fmt.Printf("Последняя синхронизация: %s (%v назад)\n",
			last.Format("2006-01-02 15:04:05"),
			time.Since(last).Round(time.Second))
	} else {
		fmt.Println("Синхронизация еще не выполнялась.")
	}

	if app.Sync.IsSyncing() {
		fmt.Println("Сейчас идет синхронизация.")
	}

	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&syncStatus, "status", false, "Показать статус без отправки")
	SyncCmd.Flags().BoolVar(&forceSync, "force", false, "Синхронизировать независимо от давности")
	SyncCmd.Flags().BoolVar(&syncWatch, "watch", false, "Фоновая синхронизация по таймеру до прерывания")
}
