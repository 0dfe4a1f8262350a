// filepath: internal/services/mocks/misc_mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hkids/internal/models"
	"hkids/internal/services"
)

// MockInfoService is a mock implementation of services.InfoService
type MockInfoService struct {
	mock.Mock
}

var _ services.InfoService = (*MockInfoService)(nil)

func (m *MockInfoService) GetInfo() models.Info {
	args := m.Called()
	return args.Get(0).(models.Info)
}

// MockHousekeepingService is a mock implementation of services.HousekeepingService
type MockHousekeepingService struct {
	mock.Mock
}

var _ services.HousekeepingService = (*MockHousekeepingService)(nil)

func (m *MockHousekeepingService) Start() { m.Called() }
func (m *MockHousekeepingService) Stop()  { m.Called() }

func (m *MockHousekeepingService) Trigger() (*services.HousekeepingReport, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.HousekeepingReport), args.Error(1)
}

// MockAuditor is a mock implementation of services.Auditor. It records calls
// without asserting on them unless the test sets expectations.
type MockAuditor struct {
	mock.Mock
}

var _ services.Auditor = (*MockAuditor)(nil)

func (m *MockAuditor) Log(ctx context.Context, action, actor, resource string, details map[string]interface{}) {
	m.Called(ctx, action, actor, resource, details)
}

// NoopAuditor drops every event; handy default for handler tests that do not
// care about audit output.
type NoopAuditor struct{}

var _ services.Auditor = (*NoopAuditor)(nil)

func (NoopAuditor) Log(ctx context.Context, action, actor, resource string, details map[string]interface{}) {
}
