package catalog

import "time"

// Справочные сущности. Клиент кэширует их списки целиком и подменяет
// кэш при каждой успешной загрузке, поэтому модели здесь — плоские
// снимки без версионирования.

type Equipment struct {
	ID                 string    `json:"_id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"` // excavator, truck, drill, loader, other
	RegistrationNumber string    `json:"registrationNumber,omitempty"`
	Status             string    `json:"status"` // active, inactive, maintenance
	Owner              string    `json:"owner,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Activity struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"` // excavation, drilling, transportation, blasting, maintenance, other
	Status    string    `json:"status,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Material struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"` // fuel, explosives, tools, parts, consumables, other
	Quantity  float64   `json:"quantity,omitempty"`
	Unit      string    `json:"unit,omitempty"` // kg, liter, piece, ton, meter
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
