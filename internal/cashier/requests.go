package cashier

type SessionOpenRequest struct {
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	InitialAmount int64  `json:"initial_amount"`
	Notes         string `json:"notes,omitempty"`
}

type MovementRequest struct {
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

type SessionCloseRequest struct {
	CountedAmount int64  `json:"counted_amount"`
	Notes         string `json:"notes,omitempty"`
	UserID        string `json:"user_id,omitempty"`
}
