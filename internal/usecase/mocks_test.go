package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// MockCatalogRepository is a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Create(ctx context.Context, entry *entity.CatalogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetByID(ctx context.Context, kind entity.CatalogKind, id uuid.UUID) (*entity.CatalogEntry, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CatalogEntry), args.Error(1)
}

func (m *MockCatalogRepository) FindByName(ctx context.Context, kind entity.CatalogKind, name string) (*entity.CatalogEntry, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CatalogEntry), args.Error(1)
}

// MockMethodRepository is a mock implementation of MethodRepository
type MockMethodRepository struct {
	mock.Mock
}

func (m *MockMethodRepository) Create(ctx context.Context, method *entity.ControlMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockMethodRepository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*entity.ControlMethod, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ControlMethod), args.Error(1)
}

// MockDetectionRepository is a mock implementation of DetectionRepository
type MockDetectionRepository struct {
	mock.Mock
}

func (m *MockDetectionRepository) Create(ctx context.Context, detection *entity.Detection) error {
	args := m.Called(ctx, detection)
	return args.Error(0)
}

func (m *MockDetectionRepository) List(ctx context.Context, kind entity.CatalogKind, limit, offset int) ([]*entity.Detection, int64, error) {
	args := m.Called(ctx, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Detection), args.Get(1).(int64), args.Error(2)
}

// MockClimateRepository is a mock implementation of ClimateRepository
type MockClimateRepository struct {
	mock.Mock
}

func (m *MockClimateRepository) Create(ctx context.Context, record *entity.ClimateRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockClimateRepository) Latest(ctx context.Context, region string) (*entity.ClimateRecord, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ClimateRecord), args.Error(1)
}

// MockAdvisor is a mock implementation of Advisor
type MockAdvisor struct {
	mock.Mock
}

func (m *MockAdvisor) GenerateText(ctx context.Context, prompt string, maxTokens int) string {
	args := m.Called(ctx, prompt, maxTokens)
	return args.String(0)
}

// MockStorage is a mock implementation of ObjectStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveFile(ctx context.Context, upload *service.Upload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

// MockClassifier is a mock implementation of Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, req service.ClassificationRequest) (*service.ClassificationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ClassificationResult), args.Error(1)
}

// MockWeatherProvider is a mock implementation of WeatherProvider
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) Current(ctx context.Context, region string) (json.RawMessage, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockWeatherProvider) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockEntityResolver is a mock implementation of EntityResolver
type MockEntityResolver struct {
	mock.Mock
}

func (m *MockEntityResolver) ResolveOrCreate(ctx context.Context, kind entity.CatalogKind, label, imageURL string, enrichment Enrichment) (*entity.CatalogEntry, bool, error) {
	args := m.Called(ctx, kind, label, imageURL, enrichment)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*entity.CatalogEntry), args.Bool(1), args.Error(2)
}
