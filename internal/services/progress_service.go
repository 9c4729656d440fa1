package services

import (
	"context"
	"sync"
	"time"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/cache"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/messaging"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/metrics"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/models"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/store"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/tracing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store is the dataset accessor the reconciler runs against.
type Store interface {
	Load() (models.Dataset, store.LoadState)
	Save(models.Dataset) error
}

// ProgressService reconciles production progress updates against the order
// dataset. All writers are serialized by an exclusive in-process lock held
// for the full load-mutate-save span; two concurrent batches can never
// overwrite each other's effects. Reads take lock-free snapshots.
type ProgressService struct {
	mu        sync.Mutex
	store     Store
	cache     *cache.RedisCache
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	tracer    tracing.Tracer
	validate  *validator.Validate
}

// NewProgressService creates a new progress service.
func NewProgressService(
	st Store,
	redisCache *cache.RedisCache,
	publisher messaging.Publisher,
	metricsCollector *metrics.Metrics,
	tracer tracing.Tracer,
) *ProgressService {
	return &ProgressService{
		store:     st,
		cache:     redisCache,
		publisher: publisher,
		metrics:   metricsCollector,
		tracer:    tracer,
		validate:  validator.New(),
	}
}

// ListOrders returns a snapshot of every order in the dataset. A missing or
// unreadable dataset degrades to an empty list; reads never fail.
func (s *ProgressService) ListOrders(ctx context.Context) []models.Order {
	if s.cache != nil {
		if orders, ok := s.cache.GetOrders(ctx); ok {
			s.metrics.IncrementCounter(metrics.CounterCacheHits)
			return orders
		}
		s.metrics.IncrementCounter(metrics.CounterCacheMisses)
	}

	dataset, state := s.store.Load()
	if state == store.LoadFailed {
		s.metrics.IncrementCounter(metrics.CounterLoadFailures)
		s.metrics.SetHealth(metrics.HealthStore, false)
	} else {
		s.metrics.SetHealth(metrics.HealthStore, true)
	}

	// Reads stay lock-free, so a concurrent writer can invalidate between
	// this load and the fill below and the cache ends up holding the older
	// snapshot until its TTL expires. Staleness is bounded by the TTL.
	if s.cache != nil && state == store.LoadOK {
		if err := s.cache.SetOrders(ctx, dataset.Orders); err != nil {
			log.Warn().Err(err).Msg("Failed to cache orders snapshot")
		}
	}

	return dataset.Orders
}

// ApplyProgress validates and applies a batch of per-bottle updates against
// one item of one order, then persists the whole dataset. Updates apply in
// sequence and the batch aborts on the first invalid update; nothing is
// persisted unless every update succeeds. The client-reported completed
// total is authoritative even when it disagrees with the derived total.
func (s *ProgressService) ApplyProgress(ctx context.Context, orderNumber, itemID string, batch models.ProgressBatch) (*models.ProgressResult, error) {
	txn := s.tracer.StartTransaction("apply-progress")
	defer s.tracer.EndTransaction(txn)
	s.tracer.AddAttribute(txn, "order_number", orderNumber)
	s.tracer.AddAttribute(txn, "item_id", itemID)

	started := time.Now()
	defer func() {
		s.metrics.RecordTimer("apply_progress", time.Since(started))
	}()

	if err := s.validate.Struct(&batch); err != nil {
		s.metrics.IncrementCounter(metrics.CounterBatchesFailed)
		return nil, &ValidationError{Message: "updates array is required and every update needs a deco_code"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loadSpan := s.tracer.StartSpan("load-dataset", txn)
	dataset, state := s.store.Load()
	loadSpan.End()

	if state == store.LoadFailed {
		s.metrics.IncrementCounter(metrics.CounterLoadFailures)
		s.metrics.IncrementCounter(metrics.CounterBatchesFailed)
		s.metrics.SetHealth(metrics.HealthStore, false)
		return nil, &DatasetUnavailableError{}
	}

	order := dataset.FindOrder(orderNumber)
	if order == nil {
		s.metrics.IncrementCounter(metrics.CounterBatchesFailed)
		return nil, &OrderNotFoundError{OrderNumber: orderNumber}
	}

	item := order.FindItem(itemID)
	if item == nil {
		s.metrics.IncrementCounter(metrics.CounterBatchesFailed)
		return nil, &ItemNotFoundError{OrderNumber: orderNumber, ItemID: itemID}
	}

	// Stock pools are shared across every order carrying the same bottle
	// name; index them once instead of rescanning per update.
	pool := buildStockIndex(&dataset)

	now := time.Now().UTC()
	operationID := uuid.New().String()
	summaries := make([]models.UpdateSummary, 0, len(batch.Updates))

	for _, upd := range batch.Updates {
		bottle := item.FindBottle(upd.DecoCode)
		if bottle == nil {
			s.metrics.IncrementCounter(metrics.CounterBatchesFailed)
			return nil, &BottleNotFoundError{DecoCode: upd.DecoCode}
		}

		// Negative numbers get the same treatment as the other malformed
		// numeric input: floored to zero.
		produced := clampNonNegative(upd.UnitsProduced.Int())
		used := clampNonNegative(upd.StockUsed.Int())
		total := clampNonNegative(upd.TotalCompleted.Int())

		if total > bottle.Quantity {
			s.metrics.IncrementCounter(metrics.CounterBatchesFailed)
			return nil, &QuantityExceededError{
				DecoCode:  bottle.DecoCode,
				Quantity:  bottle.Quantity,
				Requested: total,
			}
		}

		previous := bottle.CompletedQty

		// The client total wins over the derived expectation; a mismatch
		// is logged and counted, never rejected.
		if expected := previous + produced + used; total != expected {
			log.Warn().
				Str("operation_id", operationID).
				Str("deco_code", bottle.DecoCode).
				Int("expected", expected).
				Int("reported", total).
				Msg("Reconciliation mismatch: client total differs from derived total")
			s.metrics.IncrementCounter(metrics.CounterMismatches)
		}

		if used > 0 {
			drainStockPool(pool[bottle.Name], used)
			s.metrics.IncrementCounter(metrics.CounterStockDecrements)
		}

		bottle.CompletedQty = total
		bottle.InventoryUsed += used
		bottle.Refresh()

		if produced > 0 || used > 0 {
			bottle.TrackingLog = append(bottle.TrackingLog, models.TrackingEntry{
				Timestamp:         now,
				UnitsProduced:     produced,
				StockUsed:         used,
				CompletedTotal:    total,
				PreviousCompleted: previous,
				Note:              upd.Note,
				UpdatedBy:         batch.UpdatedBy,
			})
		}

		summaries = append(summaries, models.UpdateSummary{
			DecoCode:          bottle.DecoCode,
			Name:              bottle.Name,
			PreviousCompleted: previous,
			NewCompleted:      total,
			UnitsProduced:     produced,
			StockUsed:         used,
			Remaining:         bottle.Quantity - total,
			Status:            bottle.Status,
		})
	}

	order.OrderStatus = models.DeriveOrderStatus(order)

	saveSpan := s.tracer.StartSpan("save-dataset", txn)
	err := s.store.Save(dataset)
	saveSpan.End()

	if err != nil {
		log.Error().Err(err).Str("order_number", orderNumber).Msg("Failed to persist dataset")
		s.metrics.IncrementCounter(metrics.CounterSaveFailures)
		s.metrics.IncrementCounter(metrics.CounterBatchesFailed)
		s.metrics.SetHealth(metrics.HealthStore, false)
		s.tracer.RecordError(txn, err)
		return nil, &PersistenceError{Err: err}
	}
	s.metrics.SetHealth(metrics.HealthStore, true)

	if s.cache != nil {
		if err := s.cache.InvalidateOrders(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate orders cache")
		}
	}

	s.publishProgress(ctx, messaging.ProgressEvent{
		OperationID: operationID,
		OrderNumber: order.OrderNumber,
		ItemID:      itemID,
		OrderStatus: order.OrderStatus,
		Updates:     summaries,
		Timestamp:   now,
	})

	s.metrics.IncrementCounter(metrics.CounterBatchesApplied)
	s.metrics.IncrementCounterBy(metrics.CounterUpdatesApplied, int64(len(summaries)))

	log.Info().
		Str("operation_id", operationID).
		Str("order_number", order.OrderNumber).
		Str("item_id", itemID).
		Int("updates", len(summaries)).
		Str("order_status", order.OrderStatus).
		Msg("Progress batch applied")

	return &models.ProgressResult{
		OperationID: operationID,
		Order:       *order,
		Updates:     summaries,
		Timestamp:   now,
	}, nil
}

// publishProgress notifies downstream consumers. Failures are logged only;
// the batch has already been persisted.
func (s *ProgressService) publishProgress(ctx context.Context, event messaging.ProgressEvent) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.PublishProgress(ctx, event); err != nil {
		log.Warn().Err(err).Str("order_number", event.OrderNumber).Msg("Failed to publish progress event")
		s.metrics.IncrementCounter(metrics.CounterEventPublishFailures)
		return
	}
	s.metrics.IncrementCounter(metrics.CounterEventsPublished)
}

// buildStockIndex maps each bottle name to every bottle carrying it across
// the whole dataset, so a stock decrement reaches all of them.
func buildStockIndex(dataset *models.Dataset) map[string][]*models.Bottle {
	index := make(map[string][]*models.Bottle)
	for i := range dataset.Orders {
		order := &dataset.Orders[i]
		for j := range order.Items {
			item := &order.Items[j]
			for k := range item.Bottles {
				bottle := &item.Bottles[k]
				index[bottle.Name] = append(index[bottle.Name], bottle)
			}
		}
	}
	return index
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// drainStockPool decrements the shared pool balance on every bottle in the
// pool, floored at zero.
func drainStockPool(pool []*models.Bottle, used int) {
	for _, b := range pool {
		b.AvailableStock -= used
		if b.AvailableStock < 0 {
			b.AvailableStock = 0
		}
	}
}
