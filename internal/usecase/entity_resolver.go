package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/entity"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/repository"
	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// EntityResolver maps a classifier label onto a catalog entry, creating and
// enriching the entry the first time the label is seen.
type EntityResolver interface {
	ResolveOrCreate(ctx context.Context, kind entity.CatalogKind, label, imageURL string, enrichment Enrichment) (*entity.CatalogEntry, bool, error)
}

type entityResolver struct {
	catalogRepo repository.CatalogRepository
	advisor     service.Advisor
	maxTokens   int
	logger      *zap.Logger
	group       singleflight.Group
}

// sharedCallTimeout bounds a collapsed call. It covers two advice requests
// plus the catalog writes.
const sharedCallTimeout = 3 * time.Minute

// doShared runs fn once per key. The shared call is detached from any single
// caller's cancellation; each caller still stops waiting when its own ctx ends.
func doShared(ctx context.Context, group *singleflight.Group, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := group.DoChan(key, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		return fn(sctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

type resolved struct {
	entry   *entity.CatalogEntry
	created bool
}

// NewEntityResolver creates a new entity resolver
func NewEntityResolver(catalogRepo repository.CatalogRepository, advisor service.Advisor, maxTokens int, logger *zap.Logger) EntityResolver {
	return &entityResolver{
		catalogRepo: catalogRepo,
		advisor:     advisor,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

func (r *entityResolver) ResolveOrCreate(ctx context.Context, kind entity.CatalogKind, label, imageURL string, enrichment Enrichment) (*entity.CatalogEntry, bool, error) {
	key := entity.NameKey(label)
	if key == "" {
		return nil, false, ErrInvalidRequest
	}

	v, err := doShared(ctx, &r.group, string(kind)+":"+key, func(ctx context.Context) (any, error) {
		return r.resolve(ctx, kind, label, imageURL, enrichment)
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(*resolved)
	return res.entry, res.created, nil
}

func (r *entityResolver) resolve(ctx context.Context, kind entity.CatalogKind, label, imageURL string, enrichment Enrichment) (*resolved, error) {
	existing, err := r.catalogRepo.FindByName(ctx, kind, label)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s %q: %w", kind, label, err)
	}
	if existing != nil {
		return &resolved{entry: existing}, nil
	}

	description := r.advisor.GenerateText(ctx, enrichment.Description, r.maxTokens)
	entry := entity.NewCatalogEntry(kind, label, description, imageURL)
	if enrichment.Methods != "" {
		methods := r.advisor.GenerateText(ctx, enrichment.Methods, r.maxTokens)
		entry.Methods = append(entry.Methods, *entity.NewControlMethod(entry.ID, entity.MethodTypeGeneral, methods))
	}

	err = r.catalogRepo.Create(ctx, entry)
	if errors.Is(err, repository.ErrDuplicateEntry) {
		// another process created it between our read and write
		existing, err = r.catalogRepo.FindByName(ctx, kind, label)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read %s %q: %w", kind, label, err)
		}
		if existing == nil {
			return nil, fmt.Errorf("%s %q reported duplicate but not found", kind, label)
		}
		return &resolved{entry: existing}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s %q: %w", kind, label, err)
	}

	r.logger.Info("catalog entry created",
		zap.String("kind", string(kind)),
		zap.String("name", entry.Name),
		zap.String("id", entry.ID.String()),
	)
	return &resolved{entry: entry, created: true}, nil
}
