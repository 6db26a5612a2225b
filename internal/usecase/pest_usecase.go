package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/repository"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// MethodOutput represents a control method
type MethodOutput struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
}

// EntryOutput represents a catalog entry with its methods
type EntryOutput struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Methods     []*MethodOutput `json:"methods"`
	CreatedAt   string          `json:"created_at"`
}

// PestMethodsOutput represents the methods known for a pest
type PestMethodsOutput struct {
	Pest    string          `json:"pest"`
	Methods []*MethodOutput `json:"methods"`
}

// PestUsecase defines the interface for pest catalog lookups
type PestUsecase interface {
	Get(ctx context.Context, id uuid.UUID) (*EntryOutput, error)
	Methods(ctx context.Context, name string) (*PestMethodsOutput, error)
}

type pestUsecase struct {
	catalogRepo repository.CatalogRepository
	methodRepo  repository.MethodRepository
	advisor     service.Advisor
	maxTokens   int
	logger      *zap.Logger
	group       singleflight.Group
}

// NewPestUsecase creates a new pest usecase
func NewPestUsecase(
	catalogRepo repository.CatalogRepository,
	methodRepo repository.MethodRepository,
	advisor service.Advisor,
	maxTokens int,
	logger *zap.Logger,
) PestUsecase {
	return &pestUsecase{
		catalogRepo: catalogRepo,
		methodRepo:  methodRepo,
		advisor:     advisor,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

func (u *pestUsecase) Get(ctx context.Context, id uuid.UUID) (*EntryOutput, error) {
	entry, err := u.catalogRepo.GetByID(ctx, entity.CatalogKindPest, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return toEntryOutput(entry), nil
}

func (u *pestUsecase) Methods(ctx context.Context, name string) (*PestMethodsOutput, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidRequest
	}

	entry, err := u.catalogRepo.FindByName(ctx, entity.CatalogKindPest, name)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	v, err := doShared(ctx, &u.group, entry.ID.String(), func(ctx context.Context) (any, error) {
		return u.methodsFor(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return &PestMethodsOutput{
		Pest:    entry.Name,
		Methods: v.([]*MethodOutput),
	}, nil
}

func (u *pestUsecase) methodsFor(ctx context.Context, entry *entity.CatalogEntry) ([]*MethodOutput, error) {
	methods, err := u.methodRepo.ListByEntry(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		text := u.advisor.GenerateText(ctx, pestMethodsPrompt(entry.Name), u.maxTokens)
		method := entity.NewControlMethod(entry.ID, entity.MethodTypeGeneral, text)
		if err := u.methodRepo.Create(ctx, method); err != nil {
			return nil, err
		}
		u.logger.Info("control method generated", zap.String("pest", entry.Name))
		methods = []*entity.ControlMethod{method}
	}

	out := make([]*MethodOutput, len(methods))
	for i, m := range methods {
		out[i] = toMethodOutput(m)
	}
	return out, nil
}

func toMethodOutput(m *entity.ControlMethod) *MethodOutput {
	return &MethodOutput{
		ID:          m.ID,
		Type:        m.MethodType,
		Description: m.Description,
	}
}

func toEntryOutput(e *entity.CatalogEntry) *EntryOutput {
	methods := make([]*MethodOutput, len(e.Methods))
	for i := range e.Methods {
		methods[i] = toMethodOutput(&e.Methods[i])
	}
	return &EntryOutput{
		ID:          e.ID,
		Kind:        string(e.Kind),
		Name:        e.Name,
		Description: e.Description,
		ImageURL:    e.ImageURL,
		Methods:     methods,
		CreatedAt:   e.CreatedAt.Format(timeLayout),
	}
}
