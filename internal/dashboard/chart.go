package dashboard

import (
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/hourly-weather/internal/weather"
)

// Chart is a drawn chart resource. Release frees it; calling it twice is a no-op.
type Chart interface {
	ID() string
	Series() weather.ChartSeries
	Release()
}

// ChartRenderer draws a temperature series.
type ChartRenderer interface {
	Draw(series weather.ChartSeries) (Chart, error)
}

// Registry is an in-process ChartRenderer that tracks live charts.
type Registry struct {
	mu   sync.Mutex
	live map[string]weather.ChartSeries
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[string]weather.ChartSeries)}
}

// Draw registers a new chart for series.
func (r *Registry) Draw(series weather.ChartSeries) (Chart, error) {
	c := &registryChart{id: uuid.NewString(), series: series, registry: r}

	r.mu.Lock()
	r.live[c.id] = series
	r.mu.Unlock()

	return c, nil
}

// Live returns the number of charts not yet released.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *Registry) release(id string) {
	r.mu.Lock()
	delete(r.live, id)
	r.mu.Unlock()
}

type registryChart struct {
	id       string
	series   weather.ChartSeries
	registry *Registry
	once     sync.Once
}

func (c *registryChart) ID() string                  { return c.id }
func (c *registryChart) Series() weather.ChartSeries { return c.series }

func (c *registryChart) Release() {
	c.once.Do(func() { c.registry.release(c.id) })
}
