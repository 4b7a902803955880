package option

import (
	"context"
	"sync"
	"time"

	common_models "store-console/internal/common/models"
	"store-console/pkg/policy"

	"go.uber.org/zap"
)

// UpstreamFetcher is the batched lookup against the external option
// service. Satisfied by UpstreamClient; mocked in tests.
type UpstreamFetcher interface {
	FetchOptions(ctx context.Context, keys []string) (map[string][]policy.Option, error)
}

type OptionService interface {
	// ResolveOptions returns option lists for every requested condition
	// key, serving cached lists where available. At most one upstream
	// round-trip per call; keys that resolve to nothing map to an empty
	// list, never absent.
	ResolveOptions(ctx context.Context, keys []string) (map[string][]policy.Option, error)

	CreateSource(ctx context.Context, source *DropdownSource) (*DropdownSource, error)
	ListSources(ctx context.Context) ([]DropdownSource, error)
	DeleteSource(ctx context.Context, id string) error

	// RefreshCached re-resolves every cached key so long-lived console
	// sessions see fresh table/script-backed lists.
	RefreshCached(ctx context.Context) error
}

type OptionServiceImpl struct {
	Repo     SourceRepository
	Upstream UpstreamFetcher // nil when no upstream service is configured
	Logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string][]policy.Option
}

func NewOptionService(repo SourceRepository, upstream UpstreamFetcher, logger *zap.Logger) OptionService {
	return &OptionServiceImpl{
		Repo:     repo,
		Upstream: upstream,
		Logger:   logger,
		cache:    make(map[string][]policy.Option),
	}
}

func (s *OptionServiceImpl) ResolveOptions(ctx context.Context, keys []string) (map[string][]policy.Option, error) {
	return s.resolve(ctx, keys, true)
}

// resolve answers from the cache where it can and works the
// sources/upstream for the rest. The refresher passes useCache=false so
// its pass replaces cached lists instead of reading them back.
func (s *OptionServiceImpl) resolve(ctx context.Context, keys []string, useCache bool) (map[string][]policy.Option, error) {
	result := make(map[string][]policy.Option, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	for _, key := range keys {
		result[key] = []policy.Option{}
	}

	remaining := keys
	if useCache {
		remaining = make([]string, 0, len(keys))
		s.mu.RLock()
		for _, key := range keys {
			// Cached empty lists are retried; only a hit with options
			// short-circuits the sources.
			if cached, ok := s.cache[cacheKey(ctx, key)]; ok && len(cached) > 0 {
				result[key] = cached
				continue
			}
			remaining = append(remaining, key)
		}
		s.mu.RUnlock()
		if len(remaining) == 0 {
			return result, nil
		}
	}

	// Local sources first: tenant-configured static/table/script sources.
	sources, err := s.Repo.FindByConditionKeys(ctx, remaining)
	if err != nil {
		return nil, err
	}
	for _, source := range sources {
		opts, err := fetchSource(ctx, source)
		if err != nil {
			// A broken source degrades its keys to empty lists instead of
			// failing the whole dialog.
			s.Logger.Warn("dropdown source failed",
				zap.String("source", source.Name),
				zap.Error(err))
			continue
		}
		for _, key := range source.ConditionKeys {
			if existing, wanted := result[key]; wanted && len(existing) == 0 {
				result[key] = opts
			}
		}
	}

	// One batched upstream request for whatever the local sources did
	// not cover. A failed batch is a single error for the whole set.
	if s.Upstream != nil {
		var missing []string
		for _, key := range remaining {
			if len(result[key]) == 0 {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			fetched, err := s.Upstream.FetchOptions(ctx, missing)
			if err != nil {
				return nil, err
			}
			for key, opts := range fetched {
				if len(opts) > 0 {
					result[key] = opts
				}
			}
		}
	}

	s.mu.Lock()
	for _, key := range remaining {
		s.cache[cacheKey(ctx, key)] = result[key]
	}
	s.mu.Unlock()

	return result, nil
}

func (s *OptionServiceImpl) CreateSource(ctx context.Context, source *DropdownSource) (*DropdownSource, error) {
	source.IsActive = true
	source.CreatedAt = time.Now()
	source.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, source); err != nil {
		return nil, err
	}
	s.invalidate()
	return source, nil
}

func (s *OptionServiceImpl) ListSources(ctx context.Context) ([]DropdownSource, error) {
	return s.Repo.List(ctx)
}

func (s *OptionServiceImpl) DeleteSource(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *OptionServiceImpl) RefreshCached(ctx context.Context) error {
	s.mu.RLock()
	seen := make(map[string]bool)
	keys := make([]string, 0, len(s.cache))
	for cached := range s.cache {
		key := stripTenant(cached)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()

	if len(keys) == 0 {
		return nil
	}

	_, err := s.resolve(ctx, keys, false)
	return err
}

// invalidate drops every cached list. Source edits change what a key
// resolves to, so the next lookup goes back to the sources.
func (s *OptionServiceImpl) invalidate() {
	s.mu.Lock()
	s.cache = make(map[string][]policy.Option)
	s.mu.Unlock()
}

// Cache entries are scoped per tenant so one tenant's sources never
// leak into another's dropdowns.
func cacheKey(ctx context.Context, key string) string {
	tenantID, _ := ctx.Value(common_models.TenantIDKey).(string)
	return tenantID + "/" + key
}

func stripTenant(cached string) string {
	for i := 0; i < len(cached); i++ {
		if cached[i] == '/' {
			return cached[i+1:]
		}
	}
	return cached
}
