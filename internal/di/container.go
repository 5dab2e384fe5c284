// Package di owns module lifecycle for the application entrypoint:
// construction order, connection, and shutdown.
package di

import (
	"context"
	"fmt"
	"sync"

	"cms-bridge/internal/bridge"
	"cms-bridge/internal/shared/logger"
)

// Container holds the application's module instances.
type Container struct {
	mu sync.RWMutex

	BridgeModule *bridge.Module
	Logger       logger.Logger
}

// NewContainer creates an empty container.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{Logger: log}
}

// InitializeBridge constructs the bridge module from the environment and
// connects its stores.
func (c *Container) InitializeBridge(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	module, err := bridge.NewModule(c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create bridge module: %w", err)
	}
	if err := module.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect bridge stores: %w", err)
	}

	c.BridgeModule = module
	return nil
}

// GetBridgeModule returns the initialized bridge module, or nil.
func (c *Container) GetBridgeModule() *bridge.Module {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BridgeModule
}

// HealthCheck verifies the container's modules are usable. Store
// reachability is checked at Connect time; here we only assert wiring.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.BridgeModule == nil {
		return fmt.Errorf("bridge module not initialized")
	}
	return nil
}

// Close releases the bridge's store connections.
func (c *Container) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.BridgeModule == nil {
		return nil
	}
	return c.BridgeModule.Close(ctx)
}
