package services

import (
	"errors"
	"time"

	"github.com/estatecrm/backend/internal/repository"
)

var ErrInvalidPeriod = errors.New("period must be week, month or year, or give startDate and endDate")

// ReportService resolves report periods and queries sales aggregates.
type ReportService struct {
	reportRepo repository.ReportRepository
	now        func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		now:        time.Now,
	}
}

// ResolveRange turns either a named period or an explicit date pair into
// a [start, end) range. Explicit dates win when both are present.
func (s *ReportService) ResolveRange(period, startDate, endDate string) (time.Time, time.Time, error) {
	if startDate != "" && endDate != "" {
		start, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidPeriod
		}
		end, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidPeriod
		}
		// End date is inclusive in the API.
		return start, end.AddDate(0, 0, 1), nil
	}

	end := s.now()
	switch period {
	case "week":
		return end.AddDate(0, 0, -7), end, nil
	case "month":
		return end.AddDate(0, -1, 0), end, nil
	case "year":
		return end.AddDate(-1, 0, 0), end, nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
}

// AdminSales aggregates closed sales for all employees over the range.
func (s *ReportService) AdminSales(start, end time.Time) (*repository.SalesReport, error) {
	return s.reportRepo.SalesTotals(start, end, nil)
}

// SalesmanSales aggregates closed sales attributed to one employee.
func (s *ReportService) SalesmanSales(start, end time.Time, salesID uint64) (*repository.SalesReport, error) {
	return s.reportRepo.SalesTotals(start, end, &salesID)
}
