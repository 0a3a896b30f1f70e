package operation

import (
	"github.com/spf13/cobra"
)

// OperationCmd - родительская команда для работы с рабочими операциями
var OperationCmd = &cobra.Command{
	Use:   "operation",
	Short: "Управление рабочими операциями",
	Long:  `Запуск, остановка и просмотр текущей рабочей операции.`,
}
