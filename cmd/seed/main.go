package main

import (
	"context"
	"flag"

	"github.com/cart-tracker/internal/config"
	"github.com/cart-tracker/internal/logger"
	"github.com/cart-tracker/internal/models"
	"github.com/cart-tracker/internal/repository"
	"github.com/cart-tracker/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seedItem struct {
	ProductID string
	Name      string
	Price     string
}

func main() {
	var cartID string
	flag.StringVar(&cartID, "cart", "", "演示购物车ID (UUID v4)，为空时随机生成")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if cartID == "" {
		cartID = uuid.NewString()
	}
	normalized, ok := service.NormalizeCartID(cartID)
	if !ok {
		stdLog.Fatalf("Invalid cart id: %s", cartID)
	}

	items := []seedItem{
		{ProductID: "sku-tee-001", Name: "Basic Tee", Price: "19.90"},
		{ProductID: "sku-jeans-002", Name: "Slim Jeans", Price: "59.00"},
		{ProductID: "sku-cap-003", Name: "Canvas Cap"},
	}

	// 演示数据不走缓存
	cartService := service.NewCartService(repository.NewCartRepository(models.DB), 0)
	ctx := context.Background()
	for _, item := range items {
		name := item.Name
		input := service.AddItemInput{
			CartID:    normalized,
			ProductID: item.ProductID,
			Name:      &name,
		}
		if item.Price != "" {
			price := models.NewMoneyFromDecimal(decimal.RequireFromString(item.Price))
			input.Price = &price
		}
		outcome, err := cartService.AddItem(ctx, input)
		if err != nil {
			stdLog.Printf("Failed to seed item %s: %v", item.ProductID, err)
			continue
		}
		stdLog.Printf("Seeded item %s: %s", item.ProductID, outcome)
	}

	stdLog.Printf("Seed completed, cart_id=%s", normalized)
}
