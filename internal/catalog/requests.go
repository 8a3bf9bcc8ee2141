package catalog

type ProductCreateRequest struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Cost     int64  `json:"cost"`
	Category string `json:"category"`
	Active   *bool  `json:"active,omitempty"`
}

type ProductUpdateRequest struct {
	Name     string `json:"name,omitempty"`
	Price    *int64 `json:"price,omitempty"`
	Cost     *int64 `json:"cost,omitempty"`
	Category string `json:"category,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}
