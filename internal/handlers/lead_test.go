package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/database"
	"github.com/estatecrm/backend/internal/middleware"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
	"github.com/estatecrm/backend/internal/services"
)

// LeadHandlerTestSuite exercises the lead routes end to end, through
// login and the authenticated router.
type LeadHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
	assignment  *services.AssignmentService
}

func (suite *LeadHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.Employee{},
		&models.Project{},
		&models.Unit{},
		&models.Lead{},
		&models.Action{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	employeeRepo := repository.NewEmployeeRepository(suite.db)
	leadRepo := repository.NewLeadRepository(suite.db)

	suite.authService = services.NewAuthService(employeeRepo, "test-secret")
	suite.assignment = services.NewAssignmentService(employeeRepo)
	handler := NewLeadHandler(leadRepo, suite.assignment)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	api := suite.router.Group("/api", middleware.RequireAuth(suite.authService))
	leads := api.Group("/leads")
	{
		leads.GET("", handler.ListLeads)
		leads.POST("", handler.CreateLead)
		leads.GET("/salesperson/:salesId", handler.ListLeadsBySalesperson)
		leads.GET("/:id", handler.GetLead)
		leads.PATCH("/:id", handler.UpdateLead)
		leads.PATCH("/:id/transfer", handler.TransferLead)
		leads.DELETE("/:id", handler.DeleteLead)
	}
}

func (suite *LeadHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *LeadHandlerTestSuite) createEmployee(name, number string, role models.EmployeeRole) *models.Employee {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	suite.Require().NoError(err)

	employee := &models.Employee{
		Name:         name,
		Number:       number,
		Role:         role,
		PasswordHash: string(hash),
	}
	suite.Require().NoError(suite.db.Create(employee).Error)
	return employee
}

func (suite *LeadHandlerTestSuite) login(number string) string {
	_, token, err := suite.authService.Login(number, "supersecret")
	suite.Require().NoError(err)
	return token
}

func (suite *LeadHandlerTestSuite) doJSON(method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LeadHandlerTestSuite) TestCreateLeadRoundRobin() {
	admin := suite.createEmployee("Admin", "0100000000", models.RoleAdmin)
	salesA := suite.createEmployee("Sales A", "0100000001", models.RoleSales)
	salesB := suite.createEmployee("Sales B", "0100000002", models.RoleSales)
	suite.Require().NoError(suite.assignment.Reload())

	token := suite.login(admin.Number)

	expected := []uint64{salesA.ID, salesB.ID, salesA.ID, salesB.ID}
	for i, want := range expected {
		w := suite.doJSON(http.MethodPost, "/api/leads", token, map[string]interface{}{
			"name":   fmt.Sprintf("Lead %d", i),
			"number": fmt.Sprintf("012000000%d", i),
		})
		suite.Require().Equal(http.StatusCreated, w.Code)

		var lead models.Lead
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &lead))
		suite.Require().NotNil(lead.SalesID)
		suite.Equal(want, *lead.SalesID, "lead %d", i)
		suite.False(lead.BySales)
	}
}

func (suite *LeadHandlerTestSuite) TestCreateLeadBySalesIsSelfOwned() {
	suite.createEmployee("Admin", "0100000000", models.RoleAdmin)
	sales := suite.createEmployee("Sales A", "0100000001", models.RoleSales)
	suite.Require().NoError(suite.assignment.Reload())

	token := suite.login(sales.Number)

	w := suite.doJSON(http.MethodPost, "/api/leads", token, map[string]interface{}{
		"name":   "Walk-in",
		"number": "0120000000",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var lead models.Lead
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &lead))
	suite.Require().NotNil(lead.SalesID)
	suite.Equal(sales.ID, *lead.SalesID)
	suite.True(lead.BySales)
}

func (suite *LeadHandlerTestSuite) TestCreateLeadNoSalesAvailable() {
	admin := suite.createEmployee("Admin", "0100000000", models.RoleAdmin)
	suite.Require().NoError(suite.assignment.Reload())

	token := suite.login(admin.Number)

	w := suite.doJSON(http.MethodPost, "/api/leads", token, map[string]interface{}{
		"name":   "Orphan",
		"number": "0120000000",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var lead models.Lead
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &lead))
	suite.Nil(lead.SalesID)
}

func (suite *LeadHandlerTestSuite) TestCreateLeadDuplicateNumber() {
	admin := suite.createEmployee("Admin", "0100000000", models.RoleAdmin)
	suite.createEmployee("Sales A", "0100000001", models.RoleSales)
	suite.Require().NoError(suite.assignment.Reload())

	token := suite.login(admin.Number)

	payload := map[string]interface{}{"name": "First", "number": "0120000000"}
	w := suite.doJSON(http.MethodPost, "/api/leads", token, payload)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.doJSON(http.MethodPost, "/api/leads", token, payload)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LeadHandlerTestSuite) TestListLeadsBySalesperson() {
	admin := suite.createEmployee("Admin", "0100000000", models.RoleAdmin)
	salesA := suite.createEmployee("Sales A", "0100000001", models.RoleSales)
	salesB := suite.createEmployee("Sales B", "0100000002", models.RoleSales)
	suite.Require().NoError(suite.assignment.Reload())

	token := suite.login(admin.Number)

	// Four leads alternate between the two salespeople.
	for i := 0; i < 4; i++ {
		w := suite.doJSON(http.MethodPost, "/api/leads", token, map[string]interface{}{
			"name":   fmt.Sprintf("Lead %d", i),
			"number": fmt.Sprintf("012000000%d", i),
		})
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	for _, sales := range []*models.Employee{salesA, salesB} {
		w := suite.doJSON(http.MethodGet, fmt.Sprintf("/api/leads/salesperson/%d", sales.ID), token, nil)
		suite.Require().Equal(http.StatusOK, w.Code)

		var leads []models.Lead
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &leads))
		suite.Len(leads, 2)
		for _, lead := range leads {
			suite.Require().NotNil(lead.SalesID)
			suite.Equal(sales.ID, *lead.SalesID)
		}
	}
}

func (suite *LeadHandlerTestSuite) TestTransferLead() {
	admin := suite.createEmployee("Admin", "0100000000", models.RoleAdmin)
	salesA := suite.createEmployee("Sales A", "0100000001", models.RoleSales)
	salesB := suite.createEmployee("Sales B", "0100000002", models.RoleSales)
	suite.Require().NoError(suite.assignment.Reload())

	lead := &models.Lead{Name: "Transferable", Number: "0120000000", SalesID: &salesA.ID}
	suite.Require().NoError(suite.db.Create(lead).Error)
	suite.Require().NoError(suite.db.Create(&models.Action{
		CustomerID: lead.ID, SalesID: salesA.ID, NewState: "FOLLOW_UP",
	}).Error)

	token := suite.login(admin.Number)

	w := suite.doJSON(http.MethodPatch, fmt.Sprintf("/api/leads/%d/transfer", lead.ID), token,
		map[string]interface{}{"new_sales_id": salesB.ID})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated models.Lead
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Require().NotNil(updated.SalesID)
	suite.Equal(salesB.ID, *updated.SalesID)

	var action models.Action
	suite.Require().NoError(suite.db.First(&action, "customer_id = ?", lead.ID).Error)
	suite.Equal(salesB.ID, action.SalesID)
}

func (suite *LeadHandlerTestSuite) TestDeleteLead() {
	admin := suite.createEmployee("Admin", "0100000000", models.RoleAdmin)
	token := suite.login(admin.Number)

	lead := &models.Lead{Name: "Doomed", Number: "0120000000"}
	suite.Require().NoError(suite.db.Create(lead).Error)

	w := suite.doJSON(http.MethodDelete, fmt.Sprintf("/api/leads/%d", lead.ID), token, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.doJSON(http.MethodDelete, fmt.Sprintf("/api/leads/%d", lead.ID), token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestLeadHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LeadHandlerTestSuite))
}
