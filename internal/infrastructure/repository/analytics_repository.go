package repository

import (
	"context"
	"time"

	domainRepo "github.com/dukahub/dukapos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// locationFilter returns the SQL fragment and args for location scoping on
// the given table alias. Raw queries cannot use GORM scopes directly.
func locationFilter(ctx context.Context, alias string) (string, []interface{}) {
	if skip, ok := ctx.Value(SkipLocationScopeKey).(bool); ok && skip {
		return "1 = 1", nil
	}
	locationID, ok := GetLocationID(ctx)
	if !ok {
		return "1 = 0", nil
	}
	return alias + ".location_id = ?", []interface{}{locationID}
}

func (r *analyticsRepository) GetTodaySummary(ctx context.Context) (*domainRepo.TodaySummaryResult, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	scope, args := locationFilter(ctx, "t")
	args = append(args, startOfDay)

	var result domainRepo.TodaySummaryResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(t.total), 0) as revenue,
			COALESCE(SUM(t.total) - SUM(cost.total_cost), 0) as profit,
			COUNT(t.id) as transaction_count,
			COALESCE(SUM(t.total_items), 0) as items_sold
		FROM transactions t
		LEFT JOIN LATERAL (
			SELECT SUM(ti.quantity * p.cost_price) as total_cost
			FROM transaction_items ti
			JOIN products p ON p.id = ti.product_id
			WHERE ti.transaction_id = t.id
		) cost ON true
		WHERE t.status = 'completed'
		AND t.deleted_at IS NULL
		AND `+scope+`
		AND t.created_at >= ?
	`, args...).Scan(&result).Error

	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *analyticsRepository) GetRevenueByPaymentMethod(ctx context.Context, start, end time.Time) ([]domainRepo.PaymentMethodResult, error) {
	var results []domainRepo.PaymentMethodResult

	scope, args := locationFilter(ctx, "t")
	args = append(args, start, end)

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			t.payment_method,
			COALESCE(SUM(t.total), 0) as revenue,
			COUNT(t.id) as transaction_count
		FROM transactions t
		WHERE t.status = 'completed'
		AND t.deleted_at IS NULL
		AND `+scope+`
		AND t.created_at >= ? AND t.created_at < ?
		GROUP BY t.payment_method
		ORDER BY revenue DESC
	`, args...).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	scope, args := locationFilter(ctx, "t")
	args = append(args, start, end, limit)

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id as product_id,
			p.name as product_name,
			p.sku as sku,
			COALESCE(SUM(ti.quantity), 0) as quantity_sold,
			COALESCE(SUM(ti.total), 0) as revenue
		FROM transaction_items ti
		JOIN products p ON p.id = ti.product_id
		JOIN transactions t ON t.id = ti.transaction_id
		WHERE t.status = 'completed'
		AND t.deleted_at IS NULL
		AND `+scope+`
		AND t.created_at >= ? AND t.created_at < ?
		GROUP BY p.id, p.name, p.sku
		ORDER BY revenue DESC
		LIMIT ?
	`, args...).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailyRevenue(ctx context.Context, days int) ([]domainRepo.DailyRevenueResult, error) {
	now := time.Now()
	startOfRange := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(days - 1))

	scope, args := locationFilter(ctx, "t")
	args = append(args, startOfRange)

	var rows []domainRepo.DailyRevenueResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			date_trunc('day', t.created_at) as date,
			COALESCE(SUM(t.total), 0) as revenue,
			COALESCE(SUM(t.total) - SUM(cost.total_cost), 0) as profit
		FROM transactions t
		LEFT JOIN LATERAL (
			SELECT SUM(ti.quantity * p.cost_price) as total_cost
			FROM transaction_items ti
			JOIN products p ON p.id = ti.product_id
			WHERE ti.transaction_id = t.id
		) cost ON true
		WHERE t.status = 'completed'
		AND t.deleted_at IS NULL
		AND `+scope+`
		AND t.created_at >= ?
		GROUP BY date_trunc('day', t.created_at)
		ORDER BY date ASC
	`, args...).Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	// Fill missing days with zero rows so charts render a continuous range
	byDay := make(map[string]domainRepo.DailyRevenueResult, len(rows))
	for _, row := range rows {
		byDay[row.Date.Format("2006-01-02")] = row
	}

	results := make([]domainRepo.DailyRevenueResult, 0, days)
	for i := 0; i < days; i++ {
		day := startOfRange.AddDate(0, 0, i)
		if row, ok := byDay[day.Format("2006-01-02")]; ok {
			results = append(results, row)
		} else {
			results = append(results, domainRepo.DailyRevenueResult{Date: day})
		}
	}

	return results, nil
}

func (r *analyticsRepository) GetHourlySales(ctx context.Context, day time.Time) ([]domainRepo.HourlySalesResult, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	scope, args := locationFilter(ctx, "t")
	args = append(args, startOfDay, endOfDay)

	var results []domainRepo.HourlySalesResult
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			EXTRACT(HOUR FROM t.created_at)::int as hour,
			COALESCE(SUM(t.total), 0) as revenue,
			COUNT(t.id) as transaction_count
		FROM transactions t
		WHERE t.status = 'completed'
		AND t.deleted_at IS NULL
		AND `+scope+`
		AND t.created_at >= ? AND t.created_at < ?
		GROUP BY EXTRACT(HOUR FROM t.created_at)
		ORDER BY hour ASC
	`, args...).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetLowStockCount(ctx context.Context) (int64, error) {
	scope, args := locationFilter(ctx, "p")

	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM products p
		WHERE p.quantity <= p.quantity_alert
		AND p.deleted_at IS NULL
		AND `+scope, args...).Scan(&count).Error

	return count, err
}
