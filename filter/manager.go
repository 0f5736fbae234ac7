package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/s0up4200/marquee/tmdb"
)

// Manager keeps named filters from the configuration and applies them to movie lists
type Manager struct {
	compiler Compiler
	filters  map[string]CompiledFilter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(WithCache(100)),
		filters:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterFilter registers a new filter or updates an existing one
func (m *Manager) RegisterFilter(name, expression string) error {
	filter, err := m.compiler.Compile(expression)
	if err != nil {
		return fmt.Errorf("failed to compile filter '%s': %w", name, err)
	}

	m.mu.Lock()
	m.filters[name] = filter
	m.mu.Unlock()

	return nil
}

// RegisterFilters registers multiple filters at once. Nothing is registered if any fails.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	for name, expression := range filters {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[name]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns all registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	names := lo.Keys(m.filters)
	m.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Resolve returns the registered filter called nameOrExpression, or compiles it as an
// expression when no such filter exists.
func (m *Manager) Resolve(nameOrExpression string) (CompiledFilter, error) {
	if filter, ok := m.GetFilter(nameOrExpression); ok {
		return filter, nil
	}
	return m.compiler.Compile(nameOrExpression)
}

// Apply returns the movies matching filter, keeping their order. A nil filter matches
// everything.
func Apply(filter Filter, movies []tmdb.MovieRecord) []tmdb.MovieRecord {
	if filter == nil {
		return movies
	}
	return lo.Filter(movies, func(movie tmdb.MovieRecord, _ int) bool {
		return filter.Evaluate(movie)
	})
}

// EvaluateFilter applies a registered filter by name
func (m *Manager) EvaluateFilter(name string, movies []tmdb.MovieRecord) ([]tmdb.MovieRecord, error) {
	filter, exists := m.GetFilter(name)
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownFilter, name)
	}
	return Apply(filter, movies), nil
}
