package services

import (
	"context"
	"fmt"

	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/metrics"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/models"
	"github.com/designCentricShubhamThaker/pragati-dummy-server/internal/store"

	"github.com/rs/zerolog/log"
)

// Violation describes one dataset invariant breach found by the audit.
type Violation struct {
	OrderNumber string `json:"order_number"`
	ItemID      string `json:"item_id,omitempty"`
	DecoCode    string `json:"deco_code,omitempty"`
	Detail      string `json:"detail"`
}

// AuditDataset loads the dataset and checks its invariants: completed counts
// within bounds, bottle statuses matching their counts, and shared stock
// pools equal across every bottle carrying the same name. It mutates
// nothing; violations are logged and reflected in the health metrics.
func (s *ProgressService) AuditDataset(ctx context.Context) ([]Violation, error) {
	dataset, state := s.store.Load()
	if state == store.LoadFailed {
		s.metrics.IncrementCounter(metrics.CounterLoadFailures)
		s.metrics.SetHealth(metrics.HealthStore, false)
		return nil, &DatasetUnavailableError{}
	}

	var violations []Violation

	poolBalance := make(map[string]int)
	poolSeen := make(map[string]string)

	for i := range dataset.Orders {
		order := &dataset.Orders[i]
		for j := range order.Items {
			item := &order.Items[j]
			for k := range item.Bottles {
				b := &item.Bottles[k]

				if b.CompletedQty < 0 || b.CompletedQty > b.Quantity {
					violations = append(violations, Violation{
						OrderNumber: order.OrderNumber,
						ItemID:      item.ItemID,
						DecoCode:    b.DecoCode,
						Detail:      fmt.Sprintf("completed_qty %d outside [0, %d]", b.CompletedQty, b.Quantity),
					})
				}

				if want := models.BottleStatus(b.CompletedQty, b.Quantity); b.Status != want {
					violations = append(violations, Violation{
						OrderNumber: order.OrderNumber,
						ItemID:      item.ItemID,
						DecoCode:    b.DecoCode,
						Detail:      fmt.Sprintf("status %q does not match counts (want %q)", b.Status, want),
					})
				}

				if first, ok := poolSeen[b.Name]; !ok {
					poolSeen[b.Name] = b.DecoCode
					poolBalance[b.Name] = b.AvailableStock
				} else if poolBalance[b.Name] != b.AvailableStock {
					violations = append(violations, Violation{
						OrderNumber: order.OrderNumber,
						ItemID:      item.ItemID,
						DecoCode:    b.DecoCode,
						Detail: fmt.Sprintf("stock pool %q diverged: %d here vs %d on %q",
							b.Name, b.AvailableStock, poolBalance[b.Name], first),
					})
				}
			}
		}
	}

	s.metrics.SetHealth(metrics.HealthInvariant, len(violations) == 0)

	for _, v := range violations {
		log.Warn().
			Str("order_number", v.OrderNumber).
			Str("item_id", v.ItemID).
			Str("deco_code", v.DecoCode).
			Str("detail", v.Detail).
			Msg("Dataset invariant violation")
	}

	return violations, nil
}
