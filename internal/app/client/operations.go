package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slog"

	"minetrack/internal/domain/catalog"
	"minetrack/internal/domain/operation"
)

var (
	ErrNotAuthenticated  = errors.New("вход не выполнен")
	ErrNoActiveOperation = errors.New("нет активной операции")
)

// serverAPI — все, что слою операций нужно от HTTP клиента.
type serverAPI interface {
	remoteAPI
	ListOperations(ctx context.Context) ([]operation.Operation, error)
	ListEquipment(ctx context.Context) ([]catalog.Equipment, error)
	ListActivities(ctx context.Context) ([]catalog.Activity, error)
	ListMaterials(ctx context.Context) ([]catalog.Material, error)
}

// StartInput — параметры запуска операции, собранные с устройства.
type StartInput struct {
	Equipment        catalog.Equipment
	Activity         string
	Material         string
	TruckBeingLoaded string
	MiningFront      string
	Destination      string
	ActivityDetails  string
}

// Operations — слой мутаций клиента. Единственный путь записи: любая
// мутация сперва попадает в очередь, и лишь затем, при наличии сети,
// делается живая попытка. UI не различает онлайн и офлайн на месте
// вызова.
type Operations struct {
	queue   *OperationQueue
	oracle  Oracle
	api     serverAPI
	state   *ActiveState
	refs    *RefCache
	session *Session
	log     *slog.Logger
	now     func() time.Time
}

func NewOperations(
	queue *OperationQueue,
	oracle Oracle,
	api serverAPI,
	state *ActiveState,
	refs *RefCache,
	session *Session,
	log *slog.Logger,
) *Operations {
	return &Operations{
		queue:   queue,
		oracle:  oracle,
		api:     api,
		state:   state,
		refs:    refs,
		session: session,
		log:     log.With("component", "operations"),
		now:     time.Now,
	}
}

// StartOperation запускает операцию на выбранной технике. Запись всегда
// сперва ставится в очередь; при наличии сети тут же делается живая
// попытка, и при успехе запись из очереди снимается. При неудаче или
// офлайне операция живет с локальным id до ближайшей синхронизации.
func (o *Operations) StartOperation(ctx context.Context, in StartInput) (operation.Operation, error) {
	account, ok := o.session.Account()
	if !ok {
		return operation.Operation{}, ErrNotAuthenticated
	}

	now := o.now()
	data := map[string]any{
		"equipment":      in.Equipment.ID,
		"activity":       in.Activity,
		"operator":       account.ID,
		"localStartTime": now.UnixMilli(),
	}
	putIfSet(data, "material", in.Material)
	putIfSet(data, "truckBeingLoaded", in.TruckBeingLoaded)
	putIfSet(data, "miningFront", in.MiningFront)
	putIfSet(data, "destination", in.Destination)
	putIfSet(data, "activityDetails", in.ActivityDetails)

	pendingID, err := o.queue.Enqueue(OpStart, data)
	if err != nil {
		return operation.Operation{}, fmt.Errorf("ошибка записи операции: %w", err)
	}

	op := operation.Operation{
		ID:               pendingID,
		Equipment:        in.Equipment.ID,
		Activity:         in.Activity,
		Material:         in.Material,
		Operator:         account.ID,
		TruckBeingLoaded: in.TruckBeingLoaded,
		MiningFront:      in.MiningFront,
		Destination:      in.Destination,
		ActivityDetails:  in.ActivityDetails,
		StartTime:        now,
	}

	if o.oracle.IsOnline(ctx) {
		srvOp, err := o.api.StartOperation(ctx, startPayload(data))
		if err == nil {
			if rerr := o.queue.Remove(pendingID); rerr != nil {
				o.log.Warn("ошибка снятия записи из очереди", "id", pendingID, "error", rerr)
			}
			op = srvOp
		} else {
			o.log.Warn("живой запуск не прошел, операция остается в очереди",
				"id", pendingID,
				"error", err,
			)
		}
	}

	o.state.Add(ActiveOperation{
		Equipment:   in.Equipment,
		Operation:   op,
		StartTime:   now.UnixMilli(),
		RepeatCount: 1,
	})

	return op, nil
}

// StopOperation останавливает текущую активную операцию. Для операции с
// локальным id живая попытка не делается: сервер о ней еще не знает,
// стоп дойдет при синхронизации следом за стартом.
func (o *Operations) StopOperation(ctx context.Context, distance float64) (operation.Operation, error) {
	active, ok := o.state.Active()
	if !ok {
		return operation.Operation{}, ErrNoActiveOperation
	}

	now := o.now()
	data := map[string]any{
		"operationId":  active.Operation.ID,
		"distance":     distance,
		"localEndTime": now.UnixMilli(),
	}

	pendingID, err := o.queue.Enqueue(OpStop, data)
	if err != nil {
		return operation.Operation{}, fmt.Errorf("ошибка записи остановки: %w", err)
	}

	op := active.Operation
	op.Distance = distance
	end := now
	op.EndTime = &end

	if o.oracle.IsOnline(ctx) && !isLocalID(active.Operation.ID) {
		srvOp, err := o.api.StopOperation(ctx, active.Operation.ID, stopPayload(data))
		if err == nil {
			if rerr := o.queue.Remove(pendingID); rerr != nil {
				o.log.Warn("ошибка снятия записи из очереди", "id", pendingID, "error", rerr)
			}
			op = srvOp
		} else {
			o.log.Warn("живая остановка не прошла, остановка остается в очереди",
				"id", pendingID,
				"error", err,
			)
		}
	}

	o.state.Remove(active.Operation.ID)
	return op, nil
}

// SyncActiveOperations сверяет локальный слот активной операции с
// сервером после входа. Если у оператора несколько незакрытых операций,
// берется самая свежая по времени старта.
func (o *Operations) SyncActiveOperations(ctx context.Context) error {
	if !o.oracle.IsOnline(ctx) {
		return nil
	}

	account, ok := o.session.Account()
	if !ok {
		return ErrNotAuthenticated
	}

	ops, err := o.api.ListOperations(ctx)
	if err != nil {
		return fmt.Errorf("ошибка загрузки операций: %w", err)
	}

	var active []operation.Operation
	for _, op := range ops {
		// Чужая незакрытая операция не должна занять слот этого
		// устройства: остановка ушла бы в чужую работу.
		if op.Active() && op.Operator == account.ID {
			active = append(active, op)
		}
	}

	if len(active) == 0 {
		// Локальную, еще не отправленную операцию сервер видеть не мог —
		// ее слот не трогаем.
		if current, ok := o.state.Active(); ok && !isLocalID(current.Operation.ID) {
			o.state.Clear()
		}
		return nil
	}

	if len(active) > 1 {
		o.log.Warn("на сервере несколько незакрытых операций, выбрана самая свежая",
			"count", len(active),
		)
	}

	newest := active[0]
	for _, op := range active[1:] {
		if op.StartTime.After(newest.StartTime) {
			newest = op
		}
	}

	o.state.Add(ActiveOperation{
		Equipment:   o.equipmentByID(newest.Equipment),
		Operation:   newest,
		StartTime:   newest.StartTime.UnixMilli(),
		RepeatCount: 1,
	})
	return nil
}

// RefreshReferenceData перечитывает справочники с сервера и подменяет
// кэш целиком. В офлайне — no-op: кэш остается прежним.
func (o *Operations) RefreshReferenceData(ctx context.Context) error {
	if !o.oracle.IsOnline(ctx) {
		return nil
	}

	var result *multierror.Error

	if items, err := o.api.ListEquipment(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("техника: %w", err))
	} else if err := o.refs.CacheEquipment(items); err != nil {
		result = multierror.Append(result, err)
	}

	if items, err := o.api.ListActivities(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("виды работ: %w", err))
	} else if err := o.refs.CacheActivities(items); err != nil {
		result = multierror.Append(result, err)
	}

	if items, err := o.api.ListMaterials(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("материалы: %w", err))
	} else if err := o.refs.CacheMaterials(items); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Equipment возвращает список техники: с сервера, если сеть есть, иначе
// из кэша.
func (o *Operations) Equipment(ctx context.Context) ([]catalog.Equipment, error) {
	if o.oracle.IsOnline(ctx) {
		items, err := o.api.ListEquipment(ctx)
		if err == nil {
			if cerr := o.refs.CacheEquipment(items); cerr != nil {
				o.log.Warn("ошибка обновления кэша техники", "error", cerr)
			}
			return items, nil
		}
		o.log.Warn("загрузка техники не удалась, используется кэш", "error", err)
	}
	return o.refs.CachedEquipment()
}

// Activities возвращает список видов работ: с сервера или из кэша.
func (o *Operations) Activities(ctx context.Context) ([]catalog.Activity, error) {
	if o.oracle.IsOnline(ctx) {
		items, err := o.api.ListActivities(ctx)
		if err == nil {
			if cerr := o.refs.CacheActivities(items); cerr != nil {
				o.log.Warn("ошибка обновления кэша видов работ", "error", cerr)
			}
			return items, nil
		}
		o.log.Warn("загрузка видов работ не удалась, используется кэш", "error", err)
	}
	return o.refs.CachedActivities()
}

// Materials возвращает список материалов: с сервера или из кэша.
func (o *Operations) Materials(ctx context.Context) ([]catalog.Material, error) {
	if o.oracle.IsOnline(ctx) {
		items, err := o.api.ListMaterials(ctx)
		if err == nil {
			if cerr := o.refs.CacheMaterials(items); cerr != nil {
				o.log.Warn("ошибка обновления кэша материалов", "error", cerr)
			}
			return items, nil
		}
		o.log.Warn("загрузка материалов не удалась, используется кэш", "error", err)
	}
	return o.refs.CachedMaterials()
}

func (o *Operations) equipmentByID(id string) catalog.Equipment {
	items, err := o.refs.CachedEquipment()
	if err == nil {
		for _, item := range items {
			if item.ID == id {
				return item
			}
		}
	}
	return catalog.Equipment{ID: id}
}

func isLocalID(id string) bool {
	return strings.HasPrefix(id, "local_")
}

func putIfSet(data map[string]any, key, value string) {
	if value != "" {
		data[key] = value
	}
}
