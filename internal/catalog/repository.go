package catalog

import (
	"time"

	"github.com/rewired-gh/psceval/internal/cache"
	"github.com/rewired-gh/psceval/internal/logger"
	"github.com/rewired-gh/psceval/internal/models"
)

var log = logger.Named("catalog")

// Repository serves a catalog and its category listings from a TTL cache,
// reloading the source file after expiry.
type Repository struct {
	path     string
	catalogs *cache.Cache[*Catalog]
	listings *cache.Cache[[]models.CapexItem]
}

// NewRepository creates a repository for the catalog at path. An empty path
// serves the embedded catalog.
func NewRepository(path string, ttl time.Duration) *Repository {
	return &Repository{
		path:     path,
		catalogs: cache.New[*Catalog](ttl),
		listings: cache.New[[]models.CapexItem](ttl),
	}
}

// Catalog returns the current catalog, loading it on first use or after expiry.
func (r *Repository) Catalog() (*Catalog, error) {
	return r.catalogs.GetOrLoad("catalog:"+r.source(), func() (*Catalog, error) {
		log.Debug("Loading catalog from %s", r.source())
		return Load(r.path)
	})
}

// ItemsInCategory returns the cached item listing for a category.
func (r *Repository) ItemsInCategory(code string) ([]models.CapexItem, error) {
	return r.listings.GetOrLoad("category:"+code, func() ([]models.CapexItem, error) {
		c, err := r.Catalog()
		if err != nil {
			return nil, err
		}
		return c.ItemsInCategory(code), nil
	})
}

// Reload drops every cached value so the next call reads the source again.
func (r *Repository) Reload() {
	r.catalogs.Flush()
	r.listings.Flush()
}

func (r *Repository) source() string {
	if r.path == "" {
		return EmbeddedSource
	}
	return r.path
}
