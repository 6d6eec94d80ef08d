package store

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/model"

	"gorm.io/gorm"
)

// TrendPoint is one day of aggregated sales.
type TrendPoint struct {
	Day     time.Time `json:"day"`
	Revenue float64   `json:"revenue"`
	Profit  float64   `json:"profit"`
	Count   int64     `json:"count"`
}

// MethodBreakdown aggregates sales per payment method.
type MethodBreakdown struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Revenue       float64             `json:"revenue"`
	Count         int64               `json:"count"`
}

// SalesTrendReport is the response of the reporting endpoint.
type SalesTrendReport struct {
	From         time.Time         `json:"from"`
	To           time.Time         `json:"to"`
	TotalRevenue float64           `json:"total_revenue"`
	TotalProfit  float64           `json:"total_profit"`
	TotalCount   int64             `json:"total_count"`
	Daily        []TrendPoint      `json:"daily"`
	ByMethod     []MethodBreakdown `json:"by_method"`
}

// SalesTrend aggregates sale records in [from, to] by day and payment method.
// COALESCE keeps empty ranges at zero instead of NULL.
func (s *Store) SalesTrend(ctx context.Context, from, to time.Time) (*SalesTrendReport, error) {
	report := &SalesTrendReport{From: from, To: to}

	base := s.db.WithContext(ctx).Model(&model.SaleRecord{}).
		Where("timestamp BETWEEN ? AND ?", from, to)

	type totals struct {
		Revenue float64
		Profit  float64
		Count   int64
	}
	var t totals
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, COALESCE(SUM(profit), 0) AS profit, COUNT(*) AS count").
		Scan(&t).Error; err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}
	report.TotalRevenue = t.Revenue
	report.TotalProfit = t.Profit
	report.TotalCount = t.Count

	if err := base.Session(&gorm.Session{}).
		Select("DATE_TRUNC('day', timestamp) AS day, COALESCE(SUM(total_amount), 0) AS revenue, COALESCE(SUM(profit), 0) AS profit, COUNT(*) AS count").
		Group("DATE_TRUNC('day', timestamp)").
		Order("day").
		Scan(&report.Daily).Error; err != nil {
		return nil, fmt.Errorf("daily trend: %w", err)
	}

	if err := base.Session(&gorm.Session{}).
		Select("payment_method, COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS count").
		Group("payment_method").
		Order("payment_method").
		Scan(&report.ByMethod).Error; err != nil {
		return nil, fmt.Errorf("method breakdown: %w", err)
	}

	return report, nil
}
