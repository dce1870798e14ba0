package jobs

import (
	"context"
	"errors"
	"testing"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockCategoryService mocks the CategoryService interface for testing
type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.CategoryDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CategoryDetail), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryService) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryService) FullPath(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockCategoryService) Subtree(ctx context.Context, id uuid.UUID) ([]*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryService) Activate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CacheWarmingTestSuite struct {
	suite.Suite
	mockCategoryService *MockCategoryService
	service             *CacheWarmingService
}

func (suite *CacheWarmingTestSuite) SetupTest() {
	suite.mockCategoryService = &MockCategoryService{}
	suite.service = NewCacheWarmingService(suite.mockCategoryService, 100)
}

func (suite *CacheWarmingTestSuite) TearDownTest() {
	suite.mockCategoryService.AssertExpectations(suite.T())
}

func TestCacheWarmingTestSuite(t *testing.T) {
	suite.Run(t, new(CacheWarmingTestSuite))
}

func (suite *CacheWarmingTestSuite) TestWarmCategoryPaths_WarmsEveryCategory() {
	ctx := context.Background()

	fiction := &models.Category{ID: uuid.New(), Name: "Fiction"}
	mystery := &models.Category{ID: uuid.New(), Name: "Mystery"}
	scifi := &models.Category{ID: uuid.New(), Name: "Science Fiction"}
	categories := []*models.Category{fiction, mystery, scifi}

	suite.mockCategoryService.On("List", ctx, 100, 0).Return(categories, nil).Once()
	suite.mockCategoryService.On("FullPath", ctx, fiction.ID).Return("Fiction", nil).Once()
	suite.mockCategoryService.On("FullPath", ctx, mystery.ID).Return("Fiction > Mystery", nil).Once()
	suite.mockCategoryService.On("FullPath", ctx, scifi.ID).Return("Fiction > Science Fiction", nil).Once()

	err := suite.service.WarmCategoryPaths(ctx)
	assert.NoError(suite.T(), err)
}

func (suite *CacheWarmingTestSuite) TestWarmCategoryPaths_ListError() {
	ctx := context.Background()

	suite.mockCategoryService.On("List", ctx, 100, 0).
		Return(([]*models.Category)(nil), errors.New("database connection failed")).Once()

	err := suite.service.WarmCategoryPaths(ctx)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *CacheWarmingTestSuite) TestWarmCategoryPaths_PathFailuresDoNotAbort() {
	ctx := context.Background()

	healthy := &models.Category{ID: uuid.New(), Name: "Fiction"}
	broken := &models.Category{ID: uuid.New(), Name: "Orphaned"}
	categories := []*models.Category{healthy, broken}

	suite.mockCategoryService.On("List", ctx, 100, 0).Return(categories, nil).Once()
	suite.mockCategoryService.On("FullPath", ctx, healthy.ID).Return("Fiction", nil).Once()
	suite.mockCategoryService.On("FullPath", ctx, broken.ID).Return("", models.ErrCyclicReference).Once()

	err := suite.service.WarmCategoryPaths(ctx)
	assert.NoError(suite.T(), err)
}

func (suite *CacheWarmingTestSuite) TestWarmCategoryPaths_EmptyCatalog() {
	ctx := context.Background()

	suite.mockCategoryService.On("List", ctx, 100, 0).Return([]*models.Category{}, nil).Once()

	err := suite.service.WarmCategoryPaths(ctx)
	assert.NoError(suite.T(), err)
}

func TestNewCacheWarmingService_DefaultLimit(t *testing.T) {
	ctx := context.Background()

	mockCategoryService := &MockCategoryService{}
	mockCategoryService.On("List", ctx, 1000, 0).Return([]*models.Category{}, nil).Once()

	service := NewCacheWarmingService(mockCategoryService, 0)
	err := service.WarmCategoryPaths(ctx)

	assert.NoError(t, err)
	mockCategoryService.AssertExpectations(t)
}
