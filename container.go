package corvid

import (
	"fmt"
	"reflect"
	"sync"
)

// ResourceFactory builds a Resource instance. Registering one lets
// RouteDiscovery construct a type that needs more than a zero-arg
// constructor (a database handle, a config value) instead of failing
// discovery with a DiscoveryError the way a bare reflect.New would.
type ResourceFactory func(*Container) (interface{}, error)

// Container is a type-keyed construction registry RouteDiscovery
// consults before falling back to reflect.New's implicit zero-arg
// constructor. Its shape — named factories, lazy singleton caching,
// a generic Provide helper — is the teacher's dependency
// injection container, repurposed from a name-keyed service locator
// into the construction strategy discovery uses to instantiate
// Resource types that are not simple value structs.
type Container struct {
	factories map[reflect.Type]ResourceFactory
	instances map[reflect.Type]interface{}
	mu        sync.RWMutex
}

// NewContainer returns an empty construction registry.
func NewContainer() *Container {
	return &Container{
		factories: make(map[reflect.Type]ResourceFactory),
		instances: make(map[reflect.Type]interface{}),
	}
}

// Register installs factory as the constructor for resource type t
// (the non-pointer reflect.Type of the Resource). The factory runs
// lazily and its result is cached (singleton), matching the original
// named-service container's behavior.
func (c *Container) Register(t reflect.Type, factory ResourceFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[t] = factory
}

// RegisterInstance installs a pre-built instance for type t, bypassing
// the factory/caching path entirely.
func (c *Container) RegisterInstance(t reflect.Type, instance interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[t] = instance
}

// Has reports whether t has a registered factory or instance.
func (c *Container) Has(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.instances[t]; ok {
		return true
	}
	_, ok := c.factories[t]
	return ok
}

// Build returns an instance of t, instantiating and caching it via the
// registered factory on first use. Returns an error (not ok) when
// nothing is registered for t — discovery's caller falls back to
// reflect.New in that case.
func (c *Container) Build(t reflect.Type) (interface{}, error) {
	c.mu.RLock()
	if instance, ok := c.instances[t]; ok {
		c.mu.RUnlock()
		return instance, nil
	}
	factory, ok := c.factories[t]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no factory registered for %s", t)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if instance, ok := c.instances[t]; ok {
		return instance, nil
	}
	instance, err := factory(c)
	if err != nil {
		return nil, fmt.Errorf("failed to construct %s: %w", t, err)
	}
	c.instances[t] = instance
	return instance, nil
}

// Provide registers a typed factory for T, inferring T's reflect.Type
// from the zero value.
func Provide[T any](c *Container, factory func(*Container) (T, error)) {
	var zero T
	t := reflect.TypeOf(zero)
	c.Register(t, func(cont *Container) (interface{}, error) {
		return factory(cont)
	})
}
