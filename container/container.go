/*
Package container provides dependency injection capabilities for the
trident-rss backend.

This package implements a simple dependency injection container that helps
manage service dependencies and reduces tight coupling between components.
*/
package container

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tridentlabs/trident-rss/handlers"
	"github.com/tridentlabs/trident-rss/scraper"
	"github.com/tridentlabs/trident-rss/types"
)

// Container holds all service dependencies
type Container struct {
	mu         sync.RWMutex
	services   map[string]interface{}
	factories  map[string]func() (interface{}, error)
	singletons map[string]interface{}
}

// ServiceParams carries everything InitializeServices needs to wire the
// scraping pipeline and its HTTP handler.
type ServiceParams struct {
	Logger            *logrus.Logger
	ListingURL        string
	SiteOrigin        string
	UserAgent         string
	FetchTimeout      time.Duration
	MaxItems          int
	EnrichConcurrency int
	Channel           types.ChannelMetadata
	CacheControl      string
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		services:   make(map[string]interface{}),
		factories:  make(map[string]func() (interface{}, error)),
		singletons: make(map[string]interface{}),
	}
}

// Register registers a service instance
func (c *Container) Register(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

// RegisterFactory registers a factory function for lazy service creation
func (c *Container) RegisterFactory(name string, factory func() (interface{}, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = factory
}

// RegisterSingleton registers a singleton service
func (c *Container) RegisterSingleton(name string, service interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singletons[name] = service
}

// Get retrieves a service by name
func (c *Container) Get(name string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Check if service is already registered
	if service, exists := c.services[name]; exists {
		return service, nil
	}

	// Check if it's a singleton
	if singleton, exists := c.singletons[name]; exists {
		return singleton, nil
	}

	// Check if there's a factory for this service
	if factory, exists := c.factories[name]; exists {
		service, err := factory()
		if err != nil {
			return nil, fmt.Errorf("failed to create service %s: %v", name, err)
		}
		return service, nil
	}

	return nil, fmt.Errorf("service %s not found", name)
}

// GetLogger retrieves the logger service
func (c *Container) GetLogger() (*logrus.Logger, error) {
	service, err := c.Get("logger")
	if err != nil {
		return nil, err
	}
	logger, ok := service.(*logrus.Logger)
	if !ok {
		return nil, fmt.Errorf("logger service is not of expected type")
	}
	return logger, nil
}

// GetScraper retrieves the scraping pipeline service
func (c *Container) GetScraper() (*scraper.Service, error) {
	service, err := c.Get("scraper")
	if err != nil {
		return nil, err
	}
	svc, ok := service.(*scraper.Service)
	if !ok {
		return nil, fmt.Errorf("scraper service is not of expected type")
	}
	return svc, nil
}

// GetHandler retrieves the handler service
func (c *Container) GetHandler() (*handlers.Handler, error) {
	service, err := c.Get("handler")
	if err != nil {
		return nil, err
	}
	handler, ok := service.(*handlers.Handler)
	if !ok {
		return nil, fmt.Errorf("handler service is not of expected type")
	}
	return handler, nil
}

// InitializeServices initializes all core services with proper dependencies
func (c *Container) InitializeServices(params ServiceParams) error {
	// Register core services
	c.RegisterSingleton("logger", params.Logger)

	scraperService := scraper.NewService(scraper.Options{
		ListingURL:        params.ListingURL,
		SiteOrigin:        params.SiteOrigin,
		UserAgent:         params.UserAgent,
		FetchTimeout:      params.FetchTimeout,
		MaxItems:          params.MaxItems,
		EnrichConcurrency: params.EnrichConcurrency,
		Channel:           params.Channel,
	}, params.Logger)
	c.RegisterSingleton("scraper", scraperService)

	// Register handler factory that depends on other services
	c.RegisterFactory("handler", func() (interface{}, error) {
		return handlers.NewHandler(scraperService, params.Logger, params.CacheControl), nil
	})

	return nil
}
