package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
)

func setupAssignmentTest(t *testing.T) (*gorm.DB, *AssignmentService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Employee{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewAssignmentService(repository.NewEmployeeRepository(db))
}

func createSalesEmployee(t *testing.T, db *gorm.DB, name, number string) *models.Employee {
	t.Helper()
	employee := &models.Employee{
		Name:         name,
		Number:       number,
		Role:         models.RoleSales,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(employee).Error)
	return employee
}

func TestAssignmentService_RoundRobinFairness(t *testing.T) {
	db, svc := setupAssignmentTest(t)

	a := createSalesEmployee(t, db, "A", "0100000001")
	b := createSalesEmployee(t, db, "B", "0100000002")
	c := createSalesEmployee(t, db, "C", "0100000003")

	require.NoError(t, svc.Reload())

	// Two full cycles: every employee gets exactly 2 assignments, in
	// id order.
	counts := map[uint64]int{}
	var order []uint64
	for i := 0; i < 6; i++ {
		id, ok := svc.Next()
		require.True(t, ok)
		counts[id]++
		order = append(order, id)
	}

	require.Equal(t, 2, counts[a.ID])
	require.Equal(t, 2, counts[b.ID])
	require.Equal(t, 2, counts[c.ID])
	require.Equal(t, []uint64{a.ID, b.ID, c.ID, a.ID, b.ID, c.ID}, order)
}

func TestAssignmentService_ReloadOrderIsStable(t *testing.T) {
	db, svc := setupAssignmentTest(t)

	a := createSalesEmployee(t, db, "A", "0100000001")
	b := createSalesEmployee(t, db, "B", "0100000002")

	require.NoError(t, svc.Reload())

	first, ok := svc.Next()
	require.True(t, ok)
	require.Equal(t, a.ID, first)

	// Reload resets the cursor back to the lowest id.
	require.NoError(t, svc.Reload())
	again, ok := svc.Next()
	require.True(t, ok)
	require.Equal(t, a.ID, again)

	second, ok := svc.Next()
	require.True(t, ok)
	require.Equal(t, b.ID, second)
}

func TestAssignmentService_EmptyRotationReloadsOnce(t *testing.T) {
	db, svc := setupAssignmentTest(t)

	// No sales employees: one reload attempt, then unassigned.
	id, ok := svc.Next()
	require.False(t, ok)
	require.Zero(t, id)

	// A salesperson added later is picked up by the empty-ring reload.
	a := createSalesEmployee(t, db, "A", "0100000001")
	id, ok = svc.Next()
	require.True(t, ok)
	require.Equal(t, a.ID, id)
}

func TestAssignmentService_IgnoresNonSalesRoles(t *testing.T) {
	db, svc := setupAssignmentTest(t)

	require.NoError(t, db.Create(&models.Employee{
		Name: "Boss", Number: "0100000009", Role: models.RoleAdmin, PasswordHash: "hashed",
	}).Error)
	require.NoError(t, db.Create(&models.Employee{
		Name: "Gone", Number: "0100000008", Role: models.RoleDeleted, PasswordHash: "hashed",
	}).Error)
	a := createSalesEmployee(t, db, "A", "0100000001")

	require.NoError(t, svc.Reload())

	for i := 0; i < 3; i++ {
		id, ok := svc.Next()
		require.True(t, ok)
		require.Equal(t, a.ID, id)
	}
}
