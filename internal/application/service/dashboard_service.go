package service

import (
	"context"
	"time"

	"github.com/dukahub/dukapos-api/internal/domain/repository"
)

// DashboardService provides sales analytics for the back-office dashboard
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	customerRepo  repository.CustomerRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	customerRepo repository.CustomerRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		customerRepo:  customerRepo,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TodayRevenue      float64              `json:"today_revenue"`
	TodayProfit       float64              `json:"today_profit"`
	TodayTransactions int                  `json:"today_transactions"`
	TodayItemsSold    int                  `json:"today_items_sold"`
	OutstandingCredit float64              `json:"outstanding_credit"`
	LowStockCount     int64                `json:"low_stock_count"`
	PaymentMethods    []PaymentMethodPoint `json:"payment_methods"`
	DailyRevenue      []DailyRevenuePoint  `json:"daily_revenue"`
	TopProducts       []TopProductPoint    `json:"top_products"`
}

// PaymentMethodPoint represents revenue for one payment method
type PaymentMethodPoint struct {
	PaymentMethod    string  `json:"payment_method"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
}

// DailyRevenuePoint represents a daily revenue data point
type DailyRevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// TopProductPoint represents a top selling product
type TopProductPoint struct {
	ProductName  string  `json:"product_name"`
	SKU          string  `json:"sku"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// GetDashboardStats returns dashboard statistics for the current location
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	today, err := s.analyticsRepo.GetTodaySummary(ctx)
	if err != nil {
		return nil, err
	}
	stats.TodayRevenue = float64(today.Revenue) / 100
	stats.TodayProfit = float64(today.Profit) / 100
	stats.TodayTransactions = today.TransactionCount
	stats.TodayItemsSold = today.ItemsSold

	outstanding, err := s.customerRepo.GetTotalOutstandingCredit(ctx)
	if err != nil {
		return nil, err
	}
	stats.OutstandingCredit = float64(outstanding) / 100

	lowStock, err := s.analyticsRepo.GetLowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = lowStock

	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)

	methods, err := s.analyticsRepo.GetRevenueByPaymentMethod(ctx, weekAgo, now)
	if err != nil {
		return nil, err
	}
	stats.PaymentMethods = make([]PaymentMethodPoint, 0, len(methods))
	for _, m := range methods {
		stats.PaymentMethods = append(stats.PaymentMethods, PaymentMethodPoint{
			PaymentMethod:    m.PaymentMethod,
			Revenue:          float64(m.Revenue) / 100,
			TransactionCount: m.TransactionCount,
		})
	}

	daily, err := s.analyticsRepo.GetDailyRevenue(ctx, 7)
	if err != nil {
		return nil, err
	}
	stats.DailyRevenue = make([]DailyRevenuePoint, 0, len(daily))
	for _, d := range daily {
		stats.DailyRevenue = append(stats.DailyRevenue, DailyRevenuePoint{
			Date:    d.Date.Format("Jan 02"),
			Revenue: float64(d.Revenue) / 100,
			Profit:  float64(d.Profit) / 100,
		})
	}

	top, err := s.analyticsRepo.GetTopProducts(ctx, weekAgo, now, 5)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = make([]TopProductPoint, 0, len(top))
	for _, p := range top {
		stats.TopProducts = append(stats.TopProducts, TopProductPoint{
			ProductName:  p.ProductName,
			SKU:          p.SKU,
			QuantitySold: p.QuantitySold,
			Revenue:      float64(p.Revenue) / 100,
		})
	}

	return stats, nil
}

// HourlySalesPoint represents sales for one hour of a day
type HourlySalesPoint struct {
	Hour             int     `json:"hour"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transaction_count"`
}

// GetHourlySales returns per-hour sales for a given day
func (s *DashboardService) GetHourlySales(ctx context.Context, day time.Time) ([]HourlySalesPoint, error) {
	rows, err := s.analyticsRepo.GetHourlySales(ctx, day)
	if err != nil {
		return nil, err
	}

	points := make([]HourlySalesPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, HourlySalesPoint{
			Hour:             r.Hour,
			Revenue:          float64(r.Revenue) / 100,
			TransactionCount: r.TransactionCount,
		})
	}
	return points, nil
}
