package model

import "time"

// Product represents an item in the storefront catalogue.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Category    string    `json:"category" db:"category"`
	Stock       int       `json:"stock" db:"stock"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductRequest is the payload for creating or replacing a product.
// Every field is written on update; omitted fields become zero values.
type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl"`
}

// Apply overwrites all mutable fields of p with the request values.
func (r *ProductRequest) Apply(p *Product) {
	p.Name = r.Name
	p.Description = r.Description
	p.Price = r.Price
	p.Category = r.Category
	p.Stock = r.Stock
	p.ImageURL = r.ImageURL
}

// MessageResponse is a bare acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
