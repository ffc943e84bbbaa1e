package ver1

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// CustomPayload is one custom section as seen by handlers.
type CustomPayload struct {
	Name    string
	Payload []byte
	Offset  int
}

// CustomSource is implemented by section storages that collect custom sections.
type CustomSource interface {
	CustomPayloads() []CustomPayload
}

// CustomHandler consumes the payload of a named custom section.
type CustomHandler func(m *Module, c CustomPayload) error

// CustomHandlerRegistry matches custom sections to handlers by name.
// Handlers run after decoding, in the order the sections appear in the module.
type CustomHandlerRegistry struct {
	handlers map[string]CustomHandler
	mu       sync.RWMutex
}

// NewCustomHandlerRegistry creates an empty registry.
func NewCustomHandlerRegistry() *CustomHandlerRegistry {
	return &CustomHandlerRegistry{handlers: make(map[string]CustomHandler)}
}

// Register installs h for sections called name, replacing any previous handler.
func (r *CustomHandlerRegistry) Register(name string, h CustomHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Handler returns the handler registered for name.
func (r *CustomHandlerRegistry) Handler(name string) (CustomHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Dispatch invokes the matching handler for every custom section of m.
// Sections without a handler are skipped. The first handler error stops dispatch.
func (r *CustomHandlerRegistry) Dispatch(m *Module) (handled int, err error) {
	for _, s := range m.Sections() {
		src, ok := s.(CustomSource)
		if !ok {
			continue
		}
		for _, c := range src.CustomPayloads() {
			h, ok := r.Handler(c.Name)
			if !ok {
				Logger().Debug("no handler for custom section", zap.String("name", c.Name), zap.Int("offset", c.Offset))
				continue
			}
			if err := h(m, c); err != nil {
				return handled, fmt.Errorf("custom section %q at 0x%x: %w", c.Name, c.Offset, err)
			}
			handled++
		}
	}
	return handled, nil
}
