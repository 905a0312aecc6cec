package services

import (
	"sync"

	"go.uber.org/zap"

	"github.com/estatecrm/backend/internal/logger"
	"github.com/estatecrm/backend/internal/metrics"
	"github.com/estatecrm/backend/internal/repository"
)

// AssignmentService hands out sales employees for new leads in a cyclic
// rotation. The ring lives in process memory and is loaded once at
// startup; it is reloaded only when found empty, so an employee whose
// role changes mid-session is not picked up until then. Single-process
// deployments only.
type AssignmentService struct {
	employeeRepo repository.EmployeeRepository

	mu     sync.Mutex
	ring   []uint64
	cursor int
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(employeeRepo repository.EmployeeRepository) *AssignmentService {
	return &AssignmentService{
		employeeRepo: employeeRepo,
	}
}

// Reload replaces the rotation with the current SALES employees, in id
// order, and resets the cursor.
func (s *AssignmentService) Reload() error {
	employees, err := s.employeeRepo.ListSales()
	if err != nil {
		return err
	}

	ids := make([]uint64, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}

	s.mu.Lock()
	s.ring = ids
	s.cursor = 0
	s.mu.Unlock()
	return nil
}

// Next returns the next sales employee id in rotation. An empty ring
// gets exactly one reload attempt; if it is still empty the lead goes
// out unassigned and the caller gets (0, false).
func (s *AssignmentService) Next() (uint64, bool) {
	s.mu.Lock()
	empty := len(s.ring) == 0
	s.mu.Unlock()

	if empty {
		if err := s.Reload(); err != nil {
			logger.Get().Error("failed to reload sales rotation", zap.Error(err))
			metrics.LeadsAssignedCounter.WithLabelValues("unassigned").Inc()
			return 0, false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ring) == 0 {
		metrics.LeadsAssignedCounter.WithLabelValues("unassigned").Inc()
		return 0, false
	}

	id := s.ring[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.ring)
	metrics.LeadsAssignedCounter.WithLabelValues("assigned").Inc()
	return id, true
}
