// Command seed loads a fixed set of demo products into the catalog store.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/swiftcart/swiftcart/internal/catalog/store"
	"github.com/swiftcart/swiftcart/pkg/bootstrap"
	"github.com/swiftcart/swiftcart/pkg/config"
	"github.com/swiftcart/swiftcart/pkg/config/configloader"
)

const serviceName = "seed"

var _ configloader.Validator = (*seedConfig)(nil)

type seedConfig struct {
	Redis config.RedisConfig `koanf:"redis"`
}

func (c *seedConfig) Validate() error {
	return c.Redis.Validate()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("seed failed: %v", err)
		os.Exit(1)
	}
	log.Println("catalog seeded successfully")
}

func run(ctx context.Context) error {
	cfg, err := configloader.Load[*seedConfig](serviceName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := bootstrap.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer client.Close()

	productStore := store.NewRedisStore(client)
	for _, product := range demoProducts() {
		if err := productStore.Create(ctx, &product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", product.ID, err)
		}
		log.Printf("seeded: %s (%s)", product.Name, product.ID)
	}
	return nil
}

func demoProducts() []store.Product {
	now := time.Now().UTC()
	products := []store.Product{
		{
			ID:          "prod_001",
			Name:        `MacBook Pro 16"`,
			Price:       decimal.NewFromFloat(2499.99),
			Stock:       15,
			Category:    "Electronics",
			Description: "Apple M3 Max, 36GB RAM",
		},
		{
			ID:          "prod_002",
			Name:        "iPhone 15 Pro",
			Price:       decimal.NewFromFloat(1299.99),
			Stock:       50,
			Category:    "Electronics",
			Description: "Titanium, 256GB",
		},
		{
			ID:          "prod_003",
			Name:        "AirPods Pro",
			Price:       decimal.NewFromFloat(329.99),
			Stock:       100,
			Category:    "Electronics",
			Description: "USB-C, Active Noise Cancellation",
		},
		{
			ID:          "prod_004",
			Name:        "Magic Mouse",
			Price:       decimal.NewFromFloat(99.99),
			Stock:       75,
			Category:    "Accessories",
			Description: "Wireless, Rechargeable",
		},
		{
			ID:          "prod_005",
			Name:        "iPad Air",
			Price:       decimal.NewFromFloat(799.99),
			Stock:       30,
			Category:    "Electronics",
			Description: "11-inch, M2 chip",
		},
	}
	for i := range products {
		products[i].CreatedBy = "seed"
		products[i].CreatedAt = now
		products[i].UpdatedBy = "seed"
		products[i].UpdatedAt = now
	}
	return products
}
