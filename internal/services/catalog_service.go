package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/appcurriculum/backend/internal/models"
	"go.uber.org/zap"
)

// CatalogSource is the interface that wraps the method for reading the curriculum
type CatalogSource interface {
	// LoadModules retrieves all modules in catalog order, each with its ordered lessons, quiz questions and prerequisites.
	//
	// If some error occurs during data retrieval, the error will be returned together with "nil" value.
	LoadModules(ctx context.Context) ([]models.Module, error)
}

// CatalogCache is the interface that wraps methods for a shared catalog cache
type CatalogCache interface {
	// Get retrieves the cached modules.
	//
	// On a cache miss "nil" is returned without error.
	Get(ctx context.Context) ([]models.Module, error)
	// Set stores the modules for the given time.
	Set(ctx context.Context, modules []models.Module, ttl time.Duration) error
}

type catalogService struct {
	source   CatalogSource
	cache    CatalogCache
	cacheTTL time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	catalog *models.Catalog
}

// NewCatalogService creates a new catalog service.
// "cache" may be nil, in which case every refresh reads the source.
func NewCatalogService(source CatalogSource, cache CatalogCache, cacheTTL time.Duration, logger *zap.Logger) *catalogService {
	return &catalogService{
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Catalog returns the current catalog, loading it on first use
func (s *catalogService) Catalog(ctx context.Context) (*models.Catalog, error) {
	s.mu.RLock()
	catalog := s.catalog
	s.mu.RUnlock()
	if catalog != nil {
		return catalog, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog, nil
}

// Refresh reloads the catalog from the shared cache or, on a miss, from the source.
//
// On failure the previously loaded catalog stays in use.
func (s *catalogService) Refresh(ctx context.Context) error {
	modules, err := s.loadModules(ctx)
	if err != nil {
		return err
	}

	catalog, err := models.NewCatalog(modules)
	if err != nil {
		s.logger.Error("invalid catalog", zap.Error(err))
		return fmt.Errorf("failed to build catalog: %w", err)
	}
	if cycle := catalog.FindPrerequisiteCycle(); cycle != nil {
		s.logger.Warn("catalog has a prerequisite cycle, modules on it can never be unlocked",
			zap.Strings("modules", cycle),
		)
	}

	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()

	s.logger.Debug("catalog loaded",
		zap.Int("modules", len(catalog.Modules())),
		zap.Int("lessons", catalog.LessonsCount()),
	)
	return nil
}

func (s *catalogService) loadModules(ctx context.Context) ([]models.Module, error) {
	if s.cache != nil {
		modules, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("failed to read catalog cache", zap.Error(err))
		} else if modules != nil {
			return modules, nil
		}
	}

	modules, err := s.source.LoadModules(ctx)
	if err != nil {
		s.logger.Error("failed to load catalog", zap.Error(err))
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, modules, s.cacheTTL); err != nil {
			s.logger.Warn("failed to write catalog cache", zap.Error(err))
		}
	}
	return modules, nil
}
