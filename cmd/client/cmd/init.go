// cmd/client/cmd/init.go
package cmd

import (
	"minetrack/cmd/client/cmd/auth"
	"minetrack/cmd/client/cmd/operation"
	"minetrack/cmd/client/cmd/sync"
)

func init() {
	// Команды аутентификации
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)

	// Команды работы с операциями
	rootCmd.AddCommand(operation.OperationCmd)
	operation.OperationCmd.AddCommand(operation.StartCmd)
	operation.OperationCmd.AddCommand(operation.StopCmd)
	operation.OperationCmd.AddCommand(operation.StatusCmd)

	rootCmd.AddCommand(sync.SyncCmd)
}
