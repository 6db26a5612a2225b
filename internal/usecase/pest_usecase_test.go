package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
)

func TestPestUsecase_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		uc := NewPestUsecase(catalogRepo, new(MockMethodRepository), new(MockAdvisor), 256, zap.NewNop())

		entry := entity.NewCatalogEntry(entity.CatalogKindPest, "Aphid", "sap sucker", "u")
		entry.Methods = []entity.ControlMethod{*entity.NewControlMethod(entry.ID, entity.MethodTypeGeneral, "neem oil")}
		catalogRepo.On("GetByID", mock.Anything, entity.CatalogKindPest, entry.ID).Return(entry, nil)

		out, err := uc.Get(context.Background(), entry.ID)

		require.NoError(t, err)
		assert.Equal(t, "Aphid", out.Name)
		assert.Equal(t, "sap sucker", out.Description)
		require.Len(t, out.Methods, 1)
		assert.Equal(t, "general", out.Methods[0].Type)
		assert.Equal(t, "neem oil", out.Methods[0].Description)
	})

	t.Run("not found", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		uc := NewPestUsecase(catalogRepo, new(MockMethodRepository), new(MockAdvisor), 256, zap.NewNop())
		id := uuid.New()
		catalogRepo.On("GetByID", mock.Anything, entity.CatalogKindPest, id).Return(nil, nil)

		_, err := uc.Get(context.Background(), id)

		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestPestUsecase_Methods(t *testing.T) {
	t.Run("existing methods", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		methodRepo := new(MockMethodRepository)
		advisor := new(MockAdvisor)
		uc := NewPestUsecase(catalogRepo, methodRepo, advisor, 256, zap.NewNop())

		entry := entity.NewCatalogEntry(entity.CatalogKindPest, "Aphid", "", "")
		catalogRepo.On("FindByName", mock.Anything, entity.CatalogKindPest, "aphid").Return(entry, nil)
		methodRepo.On("ListByEntry", mock.Anything, entry.ID).Return([]*entity.ControlMethod{
			entity.NewControlMethod(entry.ID, entity.MethodTypeGeneral, "neem oil"),
		}, nil)

		out, err := uc.Methods(context.Background(), "aphid")

		require.NoError(t, err)
		assert.Equal(t, "Aphid", out.Pest)
		require.Len(t, out.Methods, 1)
		advisor.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("generates when none exist", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		methodRepo := new(MockMethodRepository)
		advisor := new(MockAdvisor)
		uc := NewPestUsecase(catalogRepo, methodRepo, advisor, 256, zap.NewNop())

		entry := entity.NewCatalogEntry(entity.CatalogKindPest, "Whitefly", "", "")
		catalogRepo.On("FindByName", mock.Anything, entity.CatalogKindPest, "Whitefly").Return(entry, nil)
		methodRepo.On("ListByEntry", mock.Anything, entry.ID).Return([]*entity.ControlMethod{}, nil)
		advisor.On("GenerateText", mock.Anything, pestMethodsPrompt("Whitefly"), 256).Return("- yellow sticky traps").Once()
		methodRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *entity.ControlMethod) bool {
			return m.EntryID == entry.ID && m.MethodType == entity.MethodTypeGeneral
		})).Return(nil).Once()

		out, err := uc.Methods(context.Background(), "Whitefly")

		require.NoError(t, err)
		require.Len(t, out.Methods, 1)
		assert.Equal(t, "- yellow sticky traps", out.Methods[0].Description)
		advisor.AssertExpectations(t)
		methodRepo.AssertExpectations(t)
	})

	t.Run("unknown pest", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		uc := NewPestUsecase(catalogRepo, new(MockMethodRepository), new(MockAdvisor), 256, zap.NewNop())
		catalogRepo.On("FindByName", mock.Anything, entity.CatalogKindPest, "locust").Return(nil, nil)

		_, err := uc.Methods(context.Background(), "locust")

		assert.ErrorIs(t, err, ErrEntryNotFound)
	})

	t.Run("blank name", func(t *testing.T) {
		uc := NewPestUsecase(new(MockCatalogRepository), new(MockMethodRepository), new(MockAdvisor), 256, zap.NewNop())

		_, err := uc.Methods(context.Background(), " ")

		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("method persist error", func(t *testing.T) {
		catalogRepo := new(MockCatalogRepository)
		methodRepo := new(MockMethodRepository)
		advisor := new(MockAdvisor)
		uc := NewPestUsecase(catalogRepo, methodRepo, advisor, 256, zap.NewNop())

		entry := entity.NewCatalogEntry(entity.CatalogKindPest, "Mite", "", "")
		catalogRepo.On("FindByName", mock.Anything, entity.CatalogKindPest, "mite").Return(entry, nil)
		methodRepo.On("ListByEntry", mock.Anything, entry.ID).Return(nil, nil)
		advisor.On("GenerateText", mock.Anything, mock.Anything, 256).Return("text")
		methodRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

		_, err := uc.Methods(context.Background(), "mite")

		assert.Error(t, err)
	})
}
