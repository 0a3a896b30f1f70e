// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"minetrack/cmd/client/cmd/types"
	"minetrack/internal/app/client"
	"minetrack/internal/app/client/config"
	"minetrack/internal/utils/logger"
)

var (
	cfg       *config.Config
	log       *slog.Logger
	app       *client.App
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "minetrack",
	Short: "Minetrack - учет работы горной техники",
	Long: `Minetrack — клиент для операторов горной техники: запуск и остановка
рабочих операций, учет перевезенных расстояний и материалов.

Клиент рассчитан на работу в карьере без устойчивой связи: операции
записываются локально и досылаются на сервер при появлении сети.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	// Переопределяем настройки из флагов командной строки
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log = logger.New(cfg.Env)

	app = client.New(cfg, log)
	if err := app.Restore(); err != nil {
		return fmt.Errorf("ошибка восстановления сессии: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "URL сервера Minetrack")
}
