package predict

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/KaramelBytes/titanic-insights/internal/dataset"
)

// State describes where a dataset version is in its model lifecycle.
type State string

const (
	StateUntrained State = "untrained"
	StateFitting   State = "fitting"
	StateTrained   State = "trained"
)

// Cache fits at most one model per dataset version. Concurrent callers for
// the same version share a single fit.
type Cache struct {
	opts TrainOptions

	mu      sync.Mutex
	models  map[string]*Model
	fitting map[string]bool
	fits    int
	group   singleflight.Group
}

// NewCache returns an empty cache that trains with opts.
func NewCache(opts TrainOptions) *Cache {
	return &Cache{
		opts:    opts,
		models:  map[string]*Model{},
		fitting: map[string]bool{},
	}
}

// Get returns the model for d's version, fitting it on first use.
func (c *Cache) Get(d *dataset.Dataset) (*Model, error) {
	if d == nil {
		return nil, ErrEmptyDataset
	}
	c.mu.Lock()
	if m, ok := c.models[d.Version]; ok {
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(d.Version, func() (interface{}, error) {
		c.mu.Lock()
		if m, ok := c.models[d.Version]; ok {
			c.mu.Unlock()
			return m, nil
		}
		c.fitting[d.Version] = true
		c.fits++
		c.mu.Unlock()

		m, err := Fit(d, c.opts)

		c.mu.Lock()
		delete(c.fitting, d.Version)
		if err == nil {
			c.models[d.Version] = m
		}
		c.mu.Unlock()
		return m, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*Model), nil
}

// State reports the lifecycle state for a dataset version.
func (c *Cache) State(version string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.models[version] != nil:
		return StateTrained
	case c.fitting[version]:
		return StateFitting
	default:
		return StateUntrained
	}
}

// Fits counts how many times training actually ran.
func (c *Cache) Fits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fits
}
