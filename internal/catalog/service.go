package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/planfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	pkgredis "github.com/angelmondragon/planfinderz-storefront/pkg/redis"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

// FailureMessage is shown when neither catalog source could be loaded.
const FailureMessage = "We couldn't load the plan catalog right now. Please try again shortly."

const loadGroupKey = "catalog"

type rawFetcher interface {
	GetRaw(ctx context.Context, path, bearer string) ([]byte, error)
}

type catalogKeyer interface {
	CatalogKey(source string) string
}

type fetchRecorder interface {
	ObserveFetch(source string, duration time.Duration, err error)
	ObserveBrowse(status string, matched int)
}

// Service aggregates both remote catalogs and answers browse queries.
type Service interface {
	Load(ctx context.Context) FetchState
	Browse(ctx context.Context, q Query) BrowseResult
	Get(ctx context.Context, sourceID string) (*Record, error)
	DefaultPageSize() int
}

// ServiceParams wires the catalog service. Cache and Metrics are optional.
type ServiceParams struct {
	Fetcher rawFetcher
	Cache   pkgredis.KV
	Keyer   catalogKeyer
	Metrics fetchRecorder
	Logger  *logger.Logger
	Config  config.CatalogConfig
	Now     func() time.Time
}

type service struct {
	fetcher    rawFetcher
	cache      pkgredis.KV
	keyer      catalogKeyer
	metrics    fetchRecorder
	logg       *logger.Logger
	cfg        config.CatalogConfig
	normalizer Normalizer
	now        func() time.Time
	group      singleflight.Group
}

// NewService validates dependencies and returns a catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	if params.Cache != nil && params.Keyer == nil {
		return nil, fmt.Errorf("catalog cache keyer required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		fetcher:    params.Fetcher,
		cache:      params.Cache,
		keyer:      params.Keyer,
		metrics:    params.Metrics,
		logg:       params.Logger,
		cfg:        params.Config,
		normalizer: NewNormalizer(params.Config.PlaceholderImage),
		now:        now,
	}, nil
}

func (s *service) DefaultPageSize() int {
	return s.cfg.PageSize
}

type sourceResult struct {
	source  enums.CatalogSource
	records []Record
	err     error
}

// Load fetches and merges both sources. Concurrent callers share one
// in-flight load. One failing source degrades the result; both failing
// yields Failed.
func (s *service) Load(ctx context.Context) FetchState {
	v, _, _ := s.group.Do(loadGroupKey, func() (any, error) {
		return s.load(context.WithoutCancel(ctx)), nil
	})
	return v.(FetchState)
}

func (s *service) load(ctx context.Context) FetchState {
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	sources := []struct {
		source enums.CatalogSource
		path   string
	}{
		{enums.CatalogSourceAdmin, s.cfg.AdminPath},
		{enums.CatalogSourceProfessional, s.cfg.ProfessionalPath},
	}

	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, source enums.CatalogSource, path string) {
			defer wg.Done()
			records, err := s.fetchSource(ctx, source, path)
			results[i] = sourceResult{source: source, records: records, err: err}
		}(i, src.source, src.path)
	}
	wg.Wait()

	var (
		combined error
		degraded []enums.CatalogSource
		admin    []Record
		pro      []Record
	)
	for _, res := range results {
		if res.err != nil {
			combined = multierr.Append(combined, fmt.Errorf("%s catalog: %w", res.source, res.err))
			degraded = append(degraded, res.source)
			continue
		}
		if res.source == enums.CatalogSourceAdmin {
			admin = res.records
		} else {
			pro = res.records
		}
	}

	if len(degraded) == len(sources) {
		if s.logg != nil {
			s.logg.Error(ctx, "catalog.load.failed", combined)
		}
		return Failed{Message: FailureMessage, Err: combined}
	}
	if combined != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"degraded": degraded,
			"error":    combined.Error(),
		}), "catalog.load.degraded")
	}
	return Succeeded{
		Records:   Merge(admin, pro),
		FetchedAt: s.now(),
		Degraded:  degraded,
	}
}

func (s *service) fetchSource(ctx context.Context, source enums.CatalogSource, path string) ([]Record, error) {
	if payload, ok := s.cached(ctx, source); ok {
		return s.normalizer.NormalizeAll(source, DecodeRawList(payload)), nil
	}

	start := time.Now()
	payload, err := s.fetcher.GetRaw(ctx, path, "")
	if s.metrics != nil {
		s.metrics.ObserveFetch(source.String(), time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	s.store(ctx, source, payload)
	return s.normalizer.NormalizeAll(source, DecodeRawList(payload)), nil
}

func (s *service) cached(ctx context.Context, source enums.CatalogSource) ([]byte, bool) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.keyer.CatalogKey(source.String()))
	if err != nil {
		if !pkgredis.IsNil(err) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.cache.read_failed")
		}
		return nil, false
	}
	if raw == "" {
		return nil, false
	}
	return []byte(raw), true
}

func (s *service) store(ctx context.Context, source enums.CatalogSource, payload []byte) {
	if s.cache == nil || s.cfg.CacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, s.keyer.CatalogKey(source.String()), string(payload), s.cfg.CacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.cache.write_failed")
	}
}

func (s *service) Browse(ctx context.Context, q Query) BrowseResult {
	if q.PageSize <= 0 {
		q.PageSize = s.cfg.PageSize
	}
	result := Evaluate(s.Load(ctx), q)
	if s.metrics != nil {
		matched := 0
		if result.Page != nil {
			matched = result.Page.TotalCount
		}
		s.metrics.ObserveBrowse(result.Status.String(), matched)
	}
	return result
}

// Get resolves one record by its source-qualified id.
func (s *service) Get(ctx context.Context, sourceID string) (*Record, error) {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id is required")
	}

	switch state := s.Load(ctx).(type) {
	case Succeeded:
		for i := range state.Records {
			if state.Records[i].SourceID == sourceID {
				rec := state.Records[i]
				return &rec, nil
			}
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	case Failed:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, state.Err, state.Message)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog not loaded")
	}
}
