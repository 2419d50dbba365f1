//go:build ignore

package main

import (
	"log"
	"os"
	"path/filepath"

	"storefront/internal/catalog"
	"storefront/internal/model"
)

// generateSampleCatalog writes a small product catalog for local development.
// Run with: go run scripts/generate_sample_catalog.go
func main() {
	path := filepath.Join("data", "catalog", "products.ndjson.gz")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []model.ProductRequest{
		{Name: "Airpods Wireless Bluetooth Headphones", Description: "Bluetooth technology lets you connect it with compatible devices wirelessly.", Price: 89.99, Category: "Electronics", Stock: 10, ImageURL: "/images/airpods.jpg"},
		{Name: "iPhone 13 Pro 256GB Memory", Description: "Triple camera system, Super Retina XDR display.", Price: 599.99, Category: "Electronics", Stock: 7, ImageURL: "/images/phone.jpg"},
		{Name: "Cannon EOS 80D DSLR Camera", Description: "24.2 megapixel APS-C sensor with dual pixel autofocus.", Price: 929.99, Category: "Electronics", Stock: 5, ImageURL: "/images/camera.jpg"},
		{Name: "Sony Playstation 5", Description: "Lightning fast loading with an ultra high speed SSD.", Price: 399.99, Category: "Electronics", Stock: 11, ImageURL: "/images/playstation.jpg"},
		{Name: "Logitech G-Series Gaming Mouse", Description: "Programmable buttons and adjustable DPI.", Price: 49.99, Category: "Electronics", Stock: 7, ImageURL: "/images/mouse.jpg"},
		{Name: "Amazon Echo Dot 3rd Generation", Description: "Voice controlled smart speaker with Alexa.", Price: 29.99, Category: "Electronics", Stock: 0, ImageURL: "/images/alexa.jpg"},
		{Name: "Ceramic Coffee Mug", Description: "350ml stoneware mug, dishwasher safe.", Price: 12.5, Category: "Kitchen", Stock: 40, ImageURL: "/images/mug.jpg"},
		{Name: "LED Desk Lamp", Description: "Dimmable lamp with USB charging port.", Price: 34, Category: "Home", Stock: 15, ImageURL: "/images/lamp.jpg"},
	}

	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create file %s: %v", path, err)
	}
	defer file.Close()

	if err := catalog.Encode(file, products); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}

	log.Printf("Created %s with %d products", path, len(products))
}
