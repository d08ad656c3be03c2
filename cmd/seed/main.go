package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rasyarzq/kasirpos-backend/pkg/config"
	"github.com/rasyarzq/kasirpos-backend/pkg/db"
	"github.com/rasyarzq/kasirpos-backend/pkg/db/models"
	"github.com/rasyarzq/kasirpos-backend/pkg/logger"
	"github.com/rasyarzq/kasirpos-backend/pkg/security"
)

const (
	defaultAdminEmail    = "admin@kasirpos.local"
	defaultAdminPassword = "password"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := seedAdmin(ctx, dbClient.DB(), cfg); err != nil {
		logg.Error(ctx, "failed to seed admin operator", err)
		os.Exit(1)
	}
	if err := seedProducts(ctx, dbClient.DB()); err != nil {
		logg.Error(ctx, "failed to seed products", err)
		os.Exit(1)
	}
	if err := seedCustomers(ctx, dbClient.DB()); err != nil {
		logg.Error(ctx, "failed to seed customers", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed completed")
}

func seedAdmin(ctx context.Context, conn *gorm.DB, cfg *config.Config) error {
	email := os.Getenv("KASIRPOS_SEED_ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("KASIRPOS_SEED_ADMIN_PASSWORD")
	if password == "" {
		password = defaultAdminPassword
	}

	var existing models.User
	err := conn.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("checking admin: %w", err)
	}

	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := conn.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	return nil
}

func seedProducts(ctx context.Context, conn *gorm.DB) error {
	price := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	products := []models.Product{
		{ProductCode: "PRD001", Name: "Laptop Asus", Price: price(7500000), Stock: 10},
		{ProductCode: "PRD002", Name: "Mouse Logitech", Price: price(250000), Stock: 50},
		{ProductCode: "PRD003", Name: "Lenovo Loq", Price: price(11150000), Stock: 50},
		{ProductCode: "PRD004", Name: "Keyboard Mechanical", Price: price(750000), Stock: 30},
		{ProductCode: "PRD005", Name: "Monitor Samsung 24\"", Price: price(2000000), Stock: 20},
		{ProductCode: "PRD006", Name: "Headset Razer", Price: price(1500000), Stock: 25},
		{ProductCode: "PRD007", Name: "Webcam Logitech", Price: price(800000), Stock: 40},
		{ProductCode: "PRD008", Name: "Flashdisk Sandisk 64GB", Price: price(150000), Stock: 100},
		{ProductCode: "PRD009", Name: "Printer Canon", Price: price(2200000), Stock: 15},
		{ProductCode: "PRD010", Name: "SSD Samsung 1TB", Price: price(1800000), Stock: 35},
		{ProductCode: "PRD011", Name: "Lenovo Legion", Price: price(2800000), Stock: 11},
	}
	err := conn.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "product_code"}}, DoNothing: true}).
		Create(&products).Error
	if err != nil {
		return fmt.Errorf("creating products: %w", err)
	}
	return nil
}

func seedCustomers(ctx context.Context, conn *gorm.DB) error {
	email := func(v string) *string { return &v }
	customers := []models.Customer{
		{FullName: "Rasya Razaqa", Phone: "085161196033"},
		{FullName: "Budi Santoso", Phone: "081234567890", Email: email("budi@example.com")},
		{FullName: "Siti Aminah", Phone: "082112223333", Email: email("siti@example.com")},
		{FullName: "Agus Pratama", Phone: "085512341234", Email: email("agus@example.com")},
	}
	err := conn.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "phone"}}, DoNothing: true}).
		Create(&customers).Error
	if err != nil {
		return fmt.Errorf("creating customers: %w", err)
	}
	return nil
}
