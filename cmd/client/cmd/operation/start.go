// cmd/client/cmd/operation/start.go
package operation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"minetrack/cmd/client/cmd/types"
	"minetrack/internal/app/client"
	"minetrack/internal/domain/catalog"
)

var (
	startEquipment   string
	startActivity    string
	startMaterial    string
	startTruck       string
	startFront       string
	startDestination string
	startDetails     string
)

var StartCmd = &cobra.Command{
	Use:   "start",
	Short: "Запустить операцию",
	Long: `Запуск рабочей операции на выбранной технике.

Технику и вид работ можно указывать по имени или по идентификатору.
Без сети операция записывается локально и будет отправлена на сервер
при ближайшей синхронизации.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if app == nil {
			return fmt.Errorf("приложение не инициализировано")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		equipment, err := resolveEquipment(ctx, app, startEquipment)
		if err != nil {
			return err
		}

		activityID, err := resolveActivity(ctx, app, startActivity)
		if err != nil {
			return err
		}

		materialID := ""
		if startMaterial != "" {
			materialID, err = resolveMaterial(ctx, app, startMaterial)
			if err != nil {
				return err
			}
		}

		op, err := app.Operations.StartOperation(ctx, client.StartInput{
			Equipment:        equipment,
			Activity:         activityID,
			Material:         materialID,
			TruckBeingLoaded: startTruck,
			MiningFront:      startFront,
			Destination:      startDestination,
			ActivityDetails:  startDetails,
		})
		if err != nil {
			if errors.Is(err, client.ErrNotAuthenticated) {
				return fmt.Errorf("требуется вход: minetrack auth login")
			}
			return fmt.Errorf("ошибка запуска операции: %w", err)
		}

		fmt.Printf("✅ Операция запущена на технике %q\n", equipment.Name)
		if strings.HasPrefix(op.ID, "local_") {
			fmt.Println("⚠️  Операция записана локально и будет отправлена при появлении сети.")
		}

		return nil
	},
}

// resolveEquipment ищет технику по id или имени среди доступных
// справочников. Офлайн поиск идет по локальному кэшу.
func resolveEquipment(ctx context.Context, app *client.App, ref string) (catalog.Equipment, error) {
	if ref == "" {
		return catalog.Equipment{}, fmt.Errorf("укажите технику: --equipment")
	}

	list, err := app.Operations.Equipment(ctx)
	if err != nil {
		return catalog.Equipment{}, fmt.Errorf("ошибка загрузки справочника техники: %w", err)
	}

	for _, eq := range list {
		if eq.ID == ref || strings.EqualFold(eq.Name, ref) {
			return eq, nil
		}
	}
	return catalog.Equipment{}, fmt.Errorf("техника %q не найдена", ref)
}

func resolveActivity(ctx context.Context, app *client.App, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("укажите вид работ: --activity")
	}

	list, err := app.Operations.Activities(ctx)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки справочника видов работ: %w", err)
	}

	for _, act := range list {
		if act.ID == ref || strings.EqualFold(act.Title, ref) {
			return act.ID, nil
		}
	}
	return "", fmt.Errorf("вид работ %q не найден", ref)
}

func resolveMaterial(ctx context.Context, app *client.App, ref string) (string, error) {
	list, err := app.Operations.Materials(ctx)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки справочника материалов: %w", err)
	}

	for _, m := range list {
		if m.ID == ref || strings.EqualFold(m.Name, ref) {
			return m.ID, nil
		}
	}
	return "", fmt.Errorf("материал %q не найден", ref)
}

func init() {
	StartCmd.Flags().StringVar(&startEquipment, "equipment", "", "Техника (id или имя)")
	StartCmd.Flags().StringVar(&startActivity, "activity", "", "Вид работ (id или название)")
	StartCmd.Flags().StringVar(&startMaterial, "material", "", "Материал (id или имя)")
	StartCmd.Flags().StringVar(&startTruck, "truck", "", "Загружаемый самосвал")
	StartCmd.Flags().StringVar(&startFront, "front", "", "Забой")
	StartCmd.Flags().StringVar(&startDestination, "destination", "", "Пункт назначения")
	StartCmd.Flags().StringVar(&startDetails, "details", "", "Примечание к операции")
}
