package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TodaySummaryResult represents aggregate sales figures for the current day
type TodaySummaryResult struct {
	Revenue          int64
	Profit           int64
	TransactionCount int
	ItemsSold        int
}

// PaymentMethodResult represents revenue aggregated by payment method
type PaymentMethodResult struct {
	PaymentMethod    string
	Revenue          int64
	TransactionCount int
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	SKU          string
	QuantitySold int
	Revenue      int64
}

// DailyRevenueResult represents sales data for a single day
type DailyRevenueResult struct {
	Date    time.Time
	Revenue int64
	Profit  int64
}

// HourlySalesResult represents sales aggregated by hour of day
type HourlySalesResult struct {
	Hour             int
	Revenue          int64
	TransactionCount int
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTodaySummary returns revenue, profit, transaction and item counts for today
	GetTodaySummary(ctx context.Context) (*TodaySummaryResult, error)

	// GetRevenueByPaymentMethod returns revenue aggregated per payment method within a range
	GetRevenueByPaymentMethod(ctx context.Context, start, end time.Time) ([]PaymentMethodResult, error)

	// GetTopProducts returns top selling products by revenue within a range
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductResult, error)

	// GetDailyRevenue returns daily revenue data for the last N days
	GetDailyRevenue(ctx context.Context, days int) ([]DailyRevenueResult, error)

	// GetHourlySales returns sales aggregated by hour for a single day
	GetHourlySales(ctx context.Context, day time.Time) ([]HourlySalesResult, error)

	// GetLowStockCount returns the number of products at or below their alert quantity
	GetLowStockCount(ctx context.Context) (int64, error)
}
