package orderstatus

import (
	"strings"
)

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	parts := strings.Split(s.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Pending   Status
	Preparing Status
	Ready     Status
	Delivered Status
	Paid      Status
	Cancelled Status
}

var Statuses = Enum{
	Pending:   Status{Name: "pending"},
	Preparing: Status{Name: "preparing"},
	Ready:     Status{Name: "ready"},
	Delivered: Status{Name: "delivered"},
	Paid:      Status{Name: "paid"},
	Cancelled: Status{Name: "cancelled"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Delivered,
	Statuses.Paid,
	Statuses.Cancelled,
}

// transitions is the single source of truth for the order lifecycle.
// Cancellation is only possible while the kitchen can still stop: once an
// order is ready or delivered it is a served commitment and must be paid.
var transitions = map[string][]string{
	Statuses.Pending.Name:   {Statuses.Preparing.Name, Statuses.Cancelled.Name},
	Statuses.Preparing.Name: {Statuses.Ready.Name, Statuses.Cancelled.Name},
	Statuses.Ready.Name:     {Statuses.Delivered.Name},
	Statuses.Delivered.Name: {Statuses.Paid.Name},
	Statuses.Paid.Name:      {},
	Statuses.Cancelled.Name: {},
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// CanTransition reports whether from → to is a legal lifecycle move.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist for the status.
func IsTerminal(name string) bool {
	return len(transitions[name]) == 0
}

// IsActive reports whether an order in this status still occupies a table.
func IsActive(name string) bool {
	return name != Statuses.Paid.Name && name != Statuses.Cancelled.Name
}
