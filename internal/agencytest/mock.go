package agencytest

import (
	"context"

	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAgency is a testify mock of agencyapi.AgencyAPI. Any call without an
// expectation fails the test, which is how tests prove no request was sent.
type MockAgency struct {
	mock.Mock
}

func (m *MockAgency) ListCats(ctx context.Context) ([]models.Cat, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]models.Cat)
	return cats, args.Error(1)
}

func (m *MockAgency) GetCat(ctx context.Context, id int64) (models.Cat, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Cat), args.Error(1)
}

func (m *MockAgency) CreateCat(ctx context.Context, cat models.CatCreate) (models.Cat, error) {
	args := m.Called(ctx, cat)
	return args.Get(0).(models.Cat), args.Error(1)
}

func (m *MockAgency) UpdateCat(ctx context.Context, id int64, update models.CatUpdate) (models.Cat, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(models.Cat), args.Error(1)
}

func (m *MockAgency) DeleteCat(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAgency) ListValidBreeds(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	breeds, _ := args.Get(0).([]string)
	return breeds, args.Error(1)
}

func (m *MockAgency) ListMissions(ctx context.Context) ([]models.Mission, error) {
	args := m.Called(ctx)
	missions, _ := args.Get(0).([]models.Mission)
	return missions, args.Error(1)
}

func (m *MockAgency) CreateMission(ctx context.Context, mission models.Mission) (models.Mission, error) {
	args := m.Called(ctx, mission)
	return args.Get(0).(models.Mission), args.Error(1)
}

func (m *MockAgency) UpdateTarget(ctx context.Context, missionId, targetId int64, update models.TargetUpdate) (models.Target, error) {
	args := m.Called(ctx, missionId, targetId, update)
	return args.Get(0).(models.Target), args.Error(1)
}
