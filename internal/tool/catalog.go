package tool

import (
	"context"

	"go.uber.org/zap"

	"github.com/pagescout/pagescout/internal/logging"
	"github.com/pagescout/pagescout/internal/types"
)

// Handler executes one tool invocation with already-filtered arguments.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Registration pairs a static tool descriptor with its handler.
type Registration struct {
	Tool    types.Tool
	Handler Handler
}

// Catalog is an immutable-after-construction mapping from tool name to its
// descriptor and handler. It is purely introspective; nothing mutates it
// after NewCatalog returns.
type Catalog struct {
	order   []string
	entries map[string]Registration
}

// NewCatalog builds a catalog from an ordered registration list. On a name
// collision the last registration wins; the collision is logged but does not
// fail construction.
func NewCatalog(regs []Registration, log *logging.Logger) *Catalog {
	if log == nil {
		log = logging.NewNop()
	}

	c := &Catalog{
		entries: make(map[string]Registration, len(regs)),
	}

	for _, reg := range regs {
		name := reg.Tool.Name
		if name == "" {
			log.Warn("skipping tool registration with empty name")
			continue
		}
		if _, exists := c.entries[name]; exists {
			log.Warn("duplicate tool registration, last wins",
				zap.String("tool", name))
		} else {
			c.order = append(c.order, name)
		}
		c.entries[name] = reg
	}

	return c
}

// Has reports whether a tool with the given name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Signature returns the declared parameter list of a registered tool.
func (c *Catalog) Signature(name string) ([]types.Parameter, error) {
	reg, ok := c.entries[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return reg.Tool.Parameters, nil
}

// Names returns all registered tool names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Definitions returns the full model-facing tool descriptors in
// registration order.
func (c *Catalog) Definitions() []types.Tool {
	tools := make([]types.Tool, 0, len(c.order))
	for _, name := range c.order {
		tools = append(tools, c.entries[name].Tool)
	}
	return tools
}

// get returns the registration for a name.
func (c *Catalog) get(name string) (Registration, bool) {
	reg, ok := c.entries[name]
	return reg, ok
}
