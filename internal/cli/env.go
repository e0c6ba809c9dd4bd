package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetkit/pkg/cache"
	"github.com/matzehuels/facetkit/pkg/config"
	"github.com/matzehuels/facetkit/pkg/layout"
	"github.com/matzehuels/facetkit/pkg/pipeline"
	"github.com/matzehuels/facetkit/pkg/project"
	"github.com/matzehuels/facetkit/pkg/query"
)

// =============================================================================
// Environment
// =============================================================================

// env is everything a command needs, wired from the config.
type env struct {
	cfg       *config.Config
	project   *project.Project
	store     layout.HostStore
	publisher *layout.Publisher
	searcher  query.Searcher
	logger    *log.Logger

	closers []func() error
}

// openEnv loads the config and opens the project, the layout store and the
// record searcher. Callers must Close the result.
func (c *CLI) openEnv(ctx context.Context) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return openEnv(ctx, cfg, loggerFromContext(ctx))
}

func openEnv(ctx context.Context, cfg *config.Config, logger *log.Logger) (e *env, err error) {
	e = &env{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			e.Close()
		}
	}()

	if e.project, err = openProject(ctx, cfg); err != nil {
		return nil, err
	}
	e.closers = append(e.closers, e.project.Repo.Close)

	if e.store, err = openStore(ctx, cfg); err != nil {
		return nil, err
	}
	if cl, ok := e.store.(interface{ Close() error }); ok {
		e.closers = append(e.closers, cl.Close)
	}
	e.publisher = layout.NewPublisher(e.store, logger)

	if e.searcher, err = e.openSearcher(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// runner creates a pipeline runner whose snapshots live in the container
// view pool.
func (e *env) runner() *pipeline.Runner {
	r := pipeline.NewRunner(query.NewCatalog(e.searcher, e.logger), e.publisher, e.logger)
	r.Snapshots = e.project.Repo.ContainerViewPool
	return r
}

// Close releases every opened backend in reverse order.
func (e *env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return stderrors.Join(errs...)
}

// =============================================================================
// Factories
// =============================================================================

// openProject resolves the project and backs its pools with the configured
// store backend: memory stays in-process, file persists under the cache
// directory and redis shares the store's server.
func openProject(ctx context.Context, cfg *config.Config) (*project.Project, error) {
	p, err := project.New(cfg.Project.Root, cfg.Project.Repo)
	if err != nil {
		return nil, err
	}
	if cfg.Project.Name != "" {
		p.Name = cfg.Project.Name
	}
	p.Description = cfg.Project.Description

	switch cfg.Store.Backend {
	case config.StoreFile:
		dir, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		if err := filePools(p, filepath.Join(dir, projectKey(p))); err != nil {
			return nil, err
		}
	case config.StoreRedis:
		if err := redisPools(ctx, p, cfg.Redis); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// projectKey scopes on-disk pools to one project root.
func projectKey(p *project.Project) string {
	return cache.ShortHash([]byte(p.Path), 12)
}

func filePools(p *project.Project, dir string) error {
	pools := map[string]*cache.Cache{
		project.PoolContainer:     &p.Repo.ContainerPool,
		project.PoolContainerView: &p.Repo.ContainerViewPool,
		project.PoolPersistent:    &p.Repo.PersistentPool,
	}
	for name, pool := range pools {
		fc, err := cache.NewFileCache(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("open %s pool: %w", name, err)
		}
		*pool = fc
	}
	return nil
}

func redisPools(ctx context.Context, p *project.Project, rc config.RedisConfig) error {
	prefix := rc.Prefix
	if prefix == "" {
		prefix = layout.DefaultRedisPrefix
	}
	pools := map[string]*cache.Cache{
		project.PoolContainer:     &p.Repo.ContainerPool,
		project.PoolContainerView: &p.Repo.ContainerViewPool,
		project.PoolPersistent:    &p.Repo.PersistentPool,
	}
	for name, pool := range pools {
		rcache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
			Prefix:   prefix + "pool:" + projectKey(p) + ":" + name + ":",
		})
		if err != nil {
			return fmt.Errorf("open %s pool: %w", name, err)
		}
		*pool = rcache
	}
	return nil
}

// openStore opens the layout store selected by store.backend.
func openStore(ctx context.Context, cfg *config.Config) (layout.HostStore, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return layout.NewMemoryStore(), nil
	case config.StoreRedis:
		return layout.NewRedisStore(ctx, layout.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	default:
		return layout.NewFileStore(cfg.Store.Dir)
	}
}

// openSearcher opens the record store selected by search.backend and wraps
// it with the container pool cache when search.cache is set.
func (e *env) openSearcher(ctx context.Context) (query.Searcher, error) {
	cfg := e.cfg.Search

	var s query.Searcher
	switch cfg.Backend {
	case config.SearchHTTP:
		s = query.NewHTTPSearcher(cfg.URL, &http.Client{}, nil)
	case config.SearchMongo:
		ms, err := query.NewMongoSearcher(ctx, query.MongoConfig{
			URI:              cfg.MongoURI,
			Database:         cfg.MongoDatabase,
			CollectionPrefix: cfg.CollectionPrefix,
		})
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, func() error { return ms.Close(context.Background()) })
		s = ms
	default:
		dir := cfg.Dir
		if dir == "" {
			dir = e.project.RepoPath
		}
		s = query.NewFileSearcher(dir)
	}

	if cfg.Cache {
		keyer := cache.NewScopedKeyer(nil, "project:"+projectKey(e.project))
		s = query.NewCachedSearcher(s, e.project.Repo.ContainerPool, keyer, cfg.CacheTTL)
	}
	return s, nil
}
