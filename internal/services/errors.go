package services

import "fmt"

// ValidationError reports a malformed or missing field in the request batch.
// Nothing has been mutated when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// OrderNotFoundError reports a lookup miss on the order number.
type OrderNotFoundError struct {
	OrderNumber string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %q not found", e.OrderNumber)
}

// ItemNotFoundError reports a lookup miss on the item id within an order.
type ItemNotFoundError struct {
	OrderNumber string
	ItemID      string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %q not found in order %q", e.ItemID, e.OrderNumber)
}

// BottleNotFoundError reports a lookup miss on a decoration code within an
// item. It aborts the whole batch, including any updates already applied in
// memory; nothing is persisted.
type BottleNotFoundError struct {
	DecoCode string
}

func (e *BottleNotFoundError) Error() string {
	return fmt.Sprintf("bottle with deco code %q not found", e.DecoCode)
}

// QuantityExceededError reports an update whose reported total passes the
// bottle's ordered quantity. The batch is aborted and nothing is persisted.
type QuantityExceededError struct {
	DecoCode  string
	Quantity  int
	Requested int
}

func (e *QuantityExceededError) Error() string {
	return fmt.Sprintf("completed total %d exceeds ordered quantity %d for deco code %q",
		e.Requested, e.Quantity, e.DecoCode)
}

// DatasetUnavailableError reports that the persisted dataset exists but
// could not be read. Mutations are refused in this state so a corrupt file
// is never overwritten with a near-empty dataset.
type DatasetUnavailableError struct{}

func (e *DatasetUnavailableError) Error() string {
	return "dataset could not be loaded; refusing to apply updates"
}

// PersistenceError reports that the dataset failed to save after the batch
// validated and applied in memory. The caller must treat the operation as
// void: the persisted state is still the pre-update dataset.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist dataset: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
