package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/almazuulu/inventory-mgmt-tool/internal/core/domain"
	"github.com/almazuulu/inventory-mgmt-tool/internal/port"
)

// Engine runs each operation as a self-contained transaction: acquire
// the cross-process lock, load the state, apply, persist, release. It
// caches nothing between calls; the store is the single source of
// truth, so concurrent processes always act on each other's writes.
type Engine struct {
	store  port.StateRepository
	locker port.Locker
	logger *zap.Logger
}

func NewEngine(store port.StateRepository, locker port.Locker, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, locker: locker, logger: logger}
}

func (e *Engine) Execute(ctx context.Context, op domain.Operation) (domain.Result, error) {
	start := time.Now()
	log := e.logger.With(
		zap.String("txn", uuid.NewString()),
		zap.String("op", string(op.Kind)),
	)

	var res domain.Result
	err := e.locker.WithLock(ctx, func() error {
		state, err := e.store.Load(ctx)
		if err != nil {
			return err
		}

		next, r, err := apply(state, op)
		if err != nil {
			// Nothing was persisted; the file still holds the prior state.
			return err
		}
		res = r

		if next == nil {
			return nil
		}
		return e.store.Save(ctx, next)
	})
	if err != nil {
		log.Info("operation failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return domain.Result{}, err
	}

	log.Debug("operation completed", zap.Duration("took", time.Since(start)))
	return res, nil
}

// apply routes op to the matching domain operation. A nil next state
// means there is nothing to persist.
func apply(state domain.Warehouse, op domain.Operation) (domain.Warehouse, domain.Result, error) {
	switch op.Kind {
	case domain.OpRegisterLocation:
		next, err := state.RegisterLocation(op.Location)
		return next, domain.Result{}, err
	case domain.OpUnregisterLocation:
		next, err := state.UnregisterLocation(op.Location)
		return next, domain.Result{}, err
	case domain.OpIncrement:
		next, err := state.Increment(op.Location, op.Item, op.Quantity)
		return next, domain.Result{}, err
	case domain.OpDecrement:
		next, err := state.Decrement(op.Location, op.Item, op.Quantity)
		return next, domain.Result{}, err
	case domain.OpTransfer:
		next, err := state.Transfer(op.Location, op.Target, op.Item, op.Quantity)
		return next, domain.Result{}, err
	case domain.OpObserve:
		items, err := state.Observe(op.Location)
		return nil, domain.Result{Items: items}, err
	default:
		return nil, domain.Result{}, fmt.Errorf("unsupported operation kind: %q", op.Kind)
	}
}
