package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
)

func setupReportTest(t *testing.T) (*gorm.DB, *ReportService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Project{},
		&models.Unit{},
		&models.Action{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewReportService(repository.NewReportRepository(db))
}

func soldUnit(t *testing.T, db *gorm.DB, price float64, soldAt time.Time, salesID uint64) {
	t.Helper()
	unit := &models.Unit{
		ProjectID: 1,
		Name:      "unit",
		Price:     price,
		Status:    models.UnitStatusSold,
		SoldDate:  &soldAt,
	}
	require.NoError(t, db.Create(unit).Error)
	require.NoError(t, db.Create(&models.Action{
		CustomerID: 1,
		SalesID:    salesID,
		NewState:   "SOLD",
		UnitID:     &unit.ID,
	}).Error)
}

func TestReportService_ResolveRange(t *testing.T) {
	_, svc := setupReportTest(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	start, end, err := svc.ResolveRange("week", "", "")
	require.NoError(t, err)
	require.Equal(t, now.AddDate(0, 0, -7), start)
	require.Equal(t, now, end)

	start, end, err = svc.ResolveRange("", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	// The end date is inclusive.
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = svc.ResolveRange("decade", "", "")
	require.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestReportService_SalesTotals(t *testing.T) {
	db, svc := setupReportTest(t)

	inRange := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	soldUnit(t, db, 1_000_000, inRange, 1)
	soldUnit(t, db, 2_500_000, inRange, 2)
	soldUnit(t, db, 9_000_000, outOfRange, 1)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	report, err := svc.AdminSales(start, end)
	require.NoError(t, err)
	require.Equal(t, int64(2), report.UnitsSold)
	require.Equal(t, 3_500_000.0, report.TotalSales)

	mine, err := svc.SalesmanSales(start, end, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), mine.UnitsSold)
	require.Equal(t, 1_000_000.0, mine.TotalSales)

	empty, err := svc.SalesmanSales(start, end, 99)
	require.NoError(t, err)
	require.Zero(t, empty.UnitsSold)
	require.Zero(t, empty.TotalSales)
}
