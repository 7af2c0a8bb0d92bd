package models

import "time"

// Store is a tenant store record as returned by the stores endpoints.
type Store struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Whatsapp        string    `json:"whatsapp,omitempty"`
	Address         string    `json:"address,omitempty"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	ZipCode         string    `json:"zip_code,omitempty"`
	IsOpen          bool      `json:"is_open"`
	DeliveryEnabled bool      `json:"delivery_enabled"`
	PickupEnabled   bool      `json:"pickup_enabled"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// StoreCreate is the payload for POST /stores/.
type StoreCreate struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	Whatsapp        string `json:"whatsapp,omitempty"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	ZipCode         string `json:"zip_code,omitempty"`
	IsOpen          *bool  `json:"is_open,omitempty"`
	DeliveryEnabled *bool  `json:"delivery_enabled,omitempty"`
	PickupEnabled   *bool  `json:"pickup_enabled,omitempty"`
}

// StoreUpdate is the payload for PATCH /stores/{id}. Nil fields are left unchanged.
type StoreUpdate struct {
	Name            *string `json:"name,omitempty"`
	Slug            *string `json:"slug,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Whatsapp        *string `json:"whatsapp,omitempty"`
	Address         *string `json:"address,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	ZipCode         *string `json:"zip_code,omitempty"`
	IsOpen          *bool   `json:"is_open,omitempty"`
	DeliveryEnabled *bool   `json:"delivery_enabled,omitempty"`
	PickupEnabled   *bool   `json:"pickup_enabled,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}
