package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/models"
)

func setupLeadRepoTest(t *testing.T) (*gorm.DB, LeadRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Employee{},
		&models.Project{},
		&models.Unit{},
		&models.Lead{},
		&models.Action{},
		&models.Task{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewLeadRepository(db)
}

func TestLeadRepository_TransferMovesHistory(t *testing.T) {
	db, repo := setupLeadRepoTest(t)

	oldSales := &models.Employee{Name: "Old", Number: "0100000001", Role: models.RoleSales, PasswordHash: "h"}
	newSales := &models.Employee{Name: "New", Number: "0100000002", Role: models.RoleSales, PasswordHash: "h"}
	require.NoError(t, db.Create(oldSales).Error)
	require.NoError(t, db.Create(newSales).Error)

	lead := &models.Lead{Name: "Ali", Number: "0111111111", SalesID: &oldSales.ID}
	require.NoError(t, db.Create(lead).Error)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Action{
			CustomerID: lead.ID,
			SalesID:    oldSales.ID,
			NewState:   "CONTACTED",
		}).Error)
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&models.Task{
			Name:       "call",
			CustomerID: lead.ID,
			SalesID:    oldSales.ID,
		}).Error)
	}

	transferred, err := repo.Transfer(lead.ID, newSales.ID)
	require.NoError(t, err)
	require.NotNil(t, transferred.SalesID)
	require.Equal(t, newSales.ID, *transferred.SalesID)

	var actionCount, taskCount int64
	require.NoError(t, db.Model(&models.Action{}).
		Where("customer_id = ? AND sales_id = ?", lead.ID, newSales.ID).
		Count(&actionCount).Error)
	require.NoError(t, db.Model(&models.Task{}).
		Where("customer_id = ? AND sales_id = ?", lead.ID, newSales.ID).
		Count(&taskCount).Error)
	require.Equal(t, int64(3), actionCount)
	require.Equal(t, int64(2), taskCount)
}

func TestLeadRepository_TransferUnknownLead(t *testing.T) {
	_, repo := setupLeadRepoTest(t)

	_, err := repo.Transfer(42, 1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// A failure partway through the transfer must roll the whole
// reassignment back.
func TestLeadRepository_TransferRollsBackOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	repo := NewLeadRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "leads"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "actions"`).
		WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	_, err = repo.Transfer(1, 7)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_DuplicateNumber(t *testing.T) {
	_, repo := setupLeadRepoTest(t)

	require.NoError(t, repo.Create(&models.Lead{Name: "Ali", Number: "0111111111"}))

	err := repo.Create(&models.Lead{Name: "Omar", Number: "0111111111"})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
