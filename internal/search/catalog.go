package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"rideNext/internal/models"
)

// Lister fetches the full ride catalog; *services.RideService implements it.
type Lister interface {
	ListRides(ctx context.Context) ([]models.Ride, error)
}

// Catalog keeps the catalog fetched once and the view filtered from it.
type Catalog struct {
	lister Lister
	logger *slog.Logger

	mu       sync.RWMutex
	all      []models.Ride
	filtered []models.Ride
}

func NewCatalog(lister Lister, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{lister: lister, logger: logger, all: []models.Ride{}, filtered: []models.Ride{}}
}

// Load replaces the catalog and resets the filtered view to all rides.
func (c *Catalog) Load(ctx context.Context) error {
	rides, err := c.lister.ListRides(ctx)
	if err != nil {
		c.logger.Error("load ride catalog failed", "err", err)
		c.set([]models.Ride{}, []models.Ride{})
		return fmt.Errorf("load catalog: %w", err)
	}
	if rides == nil {
		rides = []models.Ride{}
	}
	c.set(rides, rides)
	return nil
}

func (c *Catalog) set(all, filtered []models.Ride) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = all
	c.filtered = filtered
}

// Search recomputes the filtered view from the full catalog. Invalid criteria leave the
// view untouched.
func (c *Catalog) Search(criteria Criteria) ([]models.Ride, error) {
	f, err := criteria.Compile()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filtered = f.Apply(c.all)
	return c.filtered, nil
}

func (c *Catalog) All() []models.Ride {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.all
}

// Results returns the current filtered view.
func (c *Catalog) Results() []models.Ride {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filtered
}
