package tables

import "errors"

var (
	// ErrTableNotFound indicates the requested table number does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrTableNotFree indicates an assign was attempted on a table that is
	// not free. The caller's view is stale; it should refresh, not retry.
	ErrTableNotFree = errors.New("table is not free")
	// ErrTableNotCleaning indicates MarkClean was called on a table that is
	// not waiting to be cleaned.
	ErrTableNotCleaning = errors.New("table is not marked for cleaning")
)
