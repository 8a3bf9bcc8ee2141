package orders

import "errors"

var (
	// ErrOrderNotFound indicates the order id does not exist in the store.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder indicates an order was submitted with no items. Empty
	// orders are never stored; callers cancel instead of emptying.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrMissingTable indicates a dine-in order without a table number.
	ErrMissingTable = errors.New("dine-in order requires a table number")
	// ErrIllegalTransition indicates the requested status change is not in
	// the lifecycle graph. The caller's view is stale; refresh, don't retry.
	ErrIllegalTransition = errors.New("illegal order status transition")
	// ErrUnknownProduct indicates an item referenced a product that does
	// not exist or is inactive.
	ErrUnknownProduct = errors.New("unknown or inactive product")
	// ErrItemNotFound indicates the product is not on the order.
	ErrItemNotFound = errors.New("item not found on order")
	// ErrLastItem indicates removing the item would empty the order.
	ErrLastItem = errors.New("cannot remove the last item, cancel the order instead")
	// ErrOrderNotEditable indicates item edits on an order past preparing.
	ErrOrderNotEditable = errors.New("order can no longer be edited")
)
