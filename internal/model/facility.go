package model

// Facility спортивная площадка, доступная для бронирования.
// Цена хранится в таках за час (минимальная единица — 1 така).
type Facility struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PricePerHour int    `json:"pricePerHour"`
	Location     string `json:"location"`
	Image        string `json:"image,omitempty"`
	IsDeleted    bool   `json:"isDeleted"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}
