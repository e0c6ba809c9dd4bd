// Package project wraps the tracking repository a host serves: its location
// on disk and the object pools the storage layer keeps for it.
package project

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/facetkit/pkg/cache"
	"github.com/matzehuels/facetkit/pkg/errors"
)

// Defaults for a project without explicit settings.
const (
	DefaultName     = "My awesome project"
	DefaultRepoName = ".facetkit"
)

// ErrNoRepo is returned when the repository directory does not exist.
var ErrNoRepo = stderrors.New("repository not found")

// Pool names, as reported to the host.
const (
	PoolContainer     = "container"
	PoolContainerView = "container_view"
	PoolPersistent    = "persistent"
)

// Repo is an opened repository and its pools.
type Repo struct {
	Path     string
	ReadOnly bool

	// ContainerPool caches search results.
	ContainerPool cache.Cache
	// ContainerViewPool caches views over containers.
	ContainerViewPool cache.Cache
	// PersistentPool holds entries that outlive a single script run.
	PersistentPool cache.Cache
}

// NewRepo opens the repository at path with in-memory pools.
func NewRepo(path string, readOnly bool) *Repo {
	return &Repo{
		Path:              path,
		ReadOnly:          readOnly,
		ContainerPool:     cache.NewMemoryCache(),
		ContainerViewPool: cache.NewMemoryCache(),
		PersistentPool:    cache.NewMemoryCache(),
	}
}

// Pools returns the pools by name.
func (r *Repo) Pools() map[string]cache.Cache {
	return map[string]cache.Cache{
		PoolContainer:     r.ContainerPool,
		PoolContainerView: r.ContainerViewPool,
		PoolPersistent:    r.PersistentPool,
	}
}

// Close closes every pool.
func (r *Repo) Close() error {
	var errs []error
	for _, name := range []string{PoolContainer, PoolContainerView, PoolPersistent} {
		if err := r.Pools()[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pool: %w", name, err))
		}
	}
	return stderrors.Join(errs...)
}

// Project describes the repository served by a host.
type Project struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	RepoPath    string `json:"repo_path"`
	Description string `json:"description"`
	Repo        *Repo  `json:"-"`
}

// New creates a project rooted at root with the repository in
// root/repoName, opened read-only. The repository directory need not exist
// yet; see [Project.Exists].
func New(root, repoName string) (*Project, error) {
	if repoName == "" {
		repoName = DefaultRepoName
	}
	if err := errors.ValidateRepoName(repoName); err != nil {
		return nil, err
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working dir: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	repoPath := filepath.Join(root, repoName)
	return &Project{
		Name:     DefaultName,
		Path:     root,
		RepoPath: repoPath,
		Repo:     NewRepo(repoPath, true),
	}, nil
}

// Exists reports whether the repository is open and its directory exists.
func (p *Project) Exists() bool {
	if p.Repo == nil {
		return false
	}
	info, err := os.Stat(p.RepoPath)
	return err == nil && info.IsDir()
}

// RequireRepo returns [ErrNoRepo] unless [Project.Exists] holds.
func (p *Project) RequireRepo() error {
	if !p.Exists() {
		return fmt.Errorf("%w: %s", ErrNoRepo, p.RepoPath)
	}
	return nil
}

// CleanupRepoPools clears the container, container view and persistent
// pools.
func (p *Project) CleanupRepoPools(ctx context.Context) error {
	if p.Repo == nil {
		return nil
	}
	if err := p.Repo.ContainerPool.Clear(ctx); err != nil {
		return fmt.Errorf("clear %s pool: %w", PoolContainer, err)
	}
	if err := p.Repo.ContainerViewPool.Clear(ctx); err != nil {
		return fmt.Errorf("clear %s pool: %w", PoolContainerView, err)
	}
	if err := p.Repo.PersistentPool.Clear(ctx); err != nil {
		return fmt.Errorf("clear %s pool: %w", PoolPersistent, err)
	}
	return nil
}
