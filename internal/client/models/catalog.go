package models

import "time"

// Category is a product category scoped to a single store.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	SortOrder   int       `json:"sort_order"`
	StoreID     int64     `json:"store_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryCreate is the payload for POST /categories/.
type CategoryCreate struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	SortOrder   *int   `json:"sort_order,omitempty"`
}

// CategoryUpdate is the payload for PUT /categories/{id}.
type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	SortOrder   *int    `json:"sort_order,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CategoryRef is the embedded category summary on a product.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog item scoped to a single store.
type Product struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       string       `json:"price"`
	CategoryID  int64        `json:"category_id"`
	StoreID     int64        `json:"store_id"`
	SKU         string       `json:"sku,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Stock       int          `json:"stock"`
	TrackStock  bool         `json:"track_stock"`
	MinStock    int          `json:"min_stock"`
	IsAvailable bool         `json:"is_available"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	Category    *CategoryRef `json:"category,omitempty"`
}

// ProductCreate is the payload for POST /products/.
type ProductCreate struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
	Price            float64  `json:"price"`
	CostPrice        *float64 `json:"cost_price,omitempty"`
	PromotionalPrice *float64 `json:"promotional_price,omitempty"`
	Stock            int      `json:"stock"`
	MinStock         int      `json:"min_stock"`
	TrackStock       bool     `json:"track_stock"`
	SKU              string   `json:"sku,omitempty"`
	Barcode          string   `json:"barcode,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`
	SortOrder        int      `json:"sort_order"`
	IsFeatured       bool     `json:"is_featured"`
	IsAvailable      bool     `json:"is_available"`
	CategoryID       int64    `json:"category_id"`
	StoreID          int64    `json:"store_id"`
}

// ProductUpdate is the payload for PUT /products/{id}.
type ProductUpdate struct {
	Name             *string  `json:"name,omitempty"`
	Description      *string  `json:"description,omitempty"`
	ShortDescription *string  `json:"short_description,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	CostPrice        *float64 `json:"cost_price,omitempty"`
	PromotionalPrice *float64 `json:"promotional_price,omitempty"`
	Stock            *int     `json:"stock,omitempty"`
	MinStock         *int     `json:"min_stock,omitempty"`
	TrackStock       *bool    `json:"track_stock,omitempty"`
	SKU              *string  `json:"sku,omitempty"`
	Barcode          *string  `json:"barcode,omitempty"`
	ImageURL         *string  `json:"image_url,omitempty"`
	SortOrder        *int     `json:"sort_order,omitempty"`
	IsFeatured       *bool    `json:"is_featured,omitempty"`
	IsAvailable      *bool    `json:"is_available,omitempty"`
	CategoryID       *int64   `json:"category_id,omitempty"`
	StoreID          int64    `json:"store_id"`
}

// ProductFilters narrows product listings.
type ProductFilters struct {
	CategoryID    *int64
	OnlyAvailable bool
	Search        string
	Skip          int
	Limit         int
}
