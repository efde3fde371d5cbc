package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/ministore_api/internal/models"
	"github.com/GTDGit/ministore_api/internal/repository"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// defaultRecentPeriod is used when periodo is missing or not 7, 15 or 30.
const defaultRecentPeriod = 7

// ReportService builds the dashboard reports.
type ReportService struct {
	reportRepo *repository.ReportRepository
	now        func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(reportRepo *repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, now: time.Now}
}

// MonthlyReportMeta summarises the monthly report.
type MonthlyReportMeta struct {
	Month      int             `json:"mes"`
	Year       int             `json:"anio"`
	Total      decimal.Decimal `json:"total_monto"`
	OrderCount int             `json:"cantidad_pedidos"`
}

// MonthlyReport is the ventas-mensuales payload.
type MonthlyReport struct {
	Summary []models.PaymentMethodTotal `json:"resumen"`
	Orders  []models.MonthlyOrder       `json:"pedidos"`
	Meta    MonthlyReportMeta           `json:"meta"`
}

func (s *ReportService) ProfitSummary(ctx context.Context) ([]models.MonthlyProfit, error) {
	return s.reportRepo.ProfitSummary(ctx)
}

func (s *ReportService) TopProducts(ctx context.Context) ([]models.TopProduct, error) {
	return s.reportRepo.TopProducts(ctx)
}

// RecentSales returns the sales of the last periodo days. Unsupported or
// missing values fall back to 7.
func (s *ReportService) RecentSales(ctx context.Context, periodo string) ([]models.RecentSale, int, error) {
	days := ParsePeriod(periodo)
	rows, err := s.reportRepo.RecentSales(ctx, days)
	return rows, days, err
}

// ParsePeriod maps the periodo query value onto a supported window.
func ParsePeriod(raw string) int {
	switch n, _ := strconv.Atoi(raw); n {
	case 7, 15, 30:
		return n
	default:
		return defaultRecentPeriod
	}
}

// MonthlySales reports non-cancelled orders of one month grouped by payment
// method. Empty mes or anio default to the current month or year.
func (s *ReportService) MonthlySales(ctx context.Context, mes, anio string) (*MonthlyReport, error) {
	now := s.now()
	month, year := int(now.Month()), now.Year()

	if mes != "" {
		m, err := strconv.Atoi(mes)
		if err != nil || m < 1 || m > 12 {
			return nil, utils.ErrInvalidDate
		}
		month = m
	}
	if anio != "" {
		y, err := strconv.Atoi(anio)
		if err != nil || y < 1 {
			return nil, utils.ErrInvalidDate
		}
		year = y
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	summary, err := s.reportRepo.MonthlyBreakdown(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly breakdown: %w", err)
	}
	orders, err := s.reportRepo.MonthlyOrders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly orders: %w", err)
	}

	meta := MonthlyReportMeta{Month: month, Year: year, Total: decimal.Zero}
	for _, row := range summary {
		meta.Total = meta.Total.Add(row.Amount)
		meta.OrderCount += row.OrderCount
	}

	return &MonthlyReport{Summary: summary, Orders: orders, Meta: meta}, nil
}

func (s *ReportService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return s.reportRepo.DashboardStats(ctx)
}
