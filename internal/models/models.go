package models

import (
	"time"
)

// Production status values shared by bottles and orders.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Dataset is the whole persisted state: every order the plant is tracking.
// It is loaded and saved as a single unit.
type Dataset struct {
	Orders []Order `json:"orders"`
}

// Order is a customer order containing one or more items.
type Order struct {
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name,omitempty"`
	OrderStatus  string `json:"order_status"`
	Items        []Item `json:"items"`
}

// Item is a line within an order, holding the bottles being produced for it.
type Item struct {
	ItemID  string   `json:"item_id"`
	Name    string   `json:"name,omitempty"`
	Bottles []Bottle `json:"bottles"`
}

// Bottle is the smallest trackable production unit, identified by its
// decoration code within an item. Bottles with the same Name draw from a
// single stock pool shared across every order in the dataset.
type Bottle struct {
	DecoCode       string          `json:"deco_code"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	CompletedQty   int             `json:"completed_qty"`
	InventoryUsed  int             `json:"inventory_used"`
	AvailableStock int             `json:"available_stock"`
	Status         string          `json:"status"`
	TrackingLog    []TrackingEntry `json:"tracking_log"`
}

// TrackingEntry is one append-only audit record on a bottle's tracking log.
// PreviousCompleted keeps the pre-update total so deltas can be reconstructed
// without recomputation.
type TrackingEntry struct {
	Timestamp         time.Time `json:"timestamp"`
	UnitsProduced     int       `json:"units_produced"`
	StockUsed         int       `json:"stock_used"`
	CompletedTotal    int       `json:"completed_total"`
	PreviousCompleted int       `json:"previous_completed"`
	Note              string    `json:"note,omitempty"`
	UpdatedBy         string    `json:"updated_by,omitempty"`
}

// BottleStatus derives a bottle's status purely from its completed count and
// target quantity.
func BottleStatus(completedQty, quantity int) string {
	switch {
	case quantity > 0 && completedQty == quantity:
		return StatusCompleted
	case completedQty > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// Refresh recomputes the bottle's status from its current counts.
func (b *Bottle) Refresh() {
	b.Status = BottleStatus(b.CompletedQty, b.Quantity)
}

// DeriveOrderStatus derives an order's status from its bottles. Every bottle
// completed means the order is completed; any bottle in progress, or an order
// already marked in progress from a prior state, keeps it in progress.
func DeriveOrderStatus(o *Order) string {
	total := 0
	completed := 0
	inProgress := false

	for i := range o.Items {
		for j := range o.Items[i].Bottles {
			total++
			switch o.Items[i].Bottles[j].Status {
			case StatusCompleted:
				completed++
			case StatusInProgress:
				inProgress = true
			}
		}
	}

	switch {
	case total > 0 && completed == total:
		return StatusCompleted
	case inProgress || o.OrderStatus == StatusInProgress:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// FindOrder returns the order with the given number, or nil.
func (d *Dataset) FindOrder(orderNumber string) *Order {
	for i := range d.Orders {
		if d.Orders[i].OrderNumber == orderNumber {
			return &d.Orders[i]
		}
	}
	return nil
}

// FindItem returns the item with the given id, or nil.
func (o *Order) FindItem(itemID string) *Item {
	for i := range o.Items {
		if o.Items[i].ItemID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// FindBottle returns the bottle with the given decoration code, or nil.
func (it *Item) FindBottle(decoCode string) *Bottle {
	for i := range it.Bottles {
		if it.Bottles[i].DecoCode == decoCode {
			return &it.Bottles[i]
		}
	}
	return nil
}
