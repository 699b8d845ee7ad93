// Package export renders canonical responses into text formats.
//
// A Registry maps format names to Serializers. NewRegistry ships only "json";
// other formats are added with Register.
package export

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"alertwire/core"
	"alertwire/metrics"
)

// ErrUnsupportedFormat is returned when no serializer is registered for a format
var ErrUnsupportedFormat = errors.New("unsupported format")

// Serializer renders one response
type Serializer func(r *core.Response) ([]byte, error)

// Registry is a named set of serializers, safe for concurrent use
type Registry struct {
	mu          sync.RWMutex
	serializers map[string]Serializer
}

// NewRegistry returns a registry holding the default JSON serializer
func NewRegistry() *Registry {
	return &Registry{
		serializers: map[string]Serializer{
			FormatJSON: JSON,
		},
	}
}

// Register adds or replaces the serializer for format. Names are case-insensitive.
func (reg *Registry) Register(format string, s Serializer) error {
	name := normalizeFormat(format)
	if name == "" {
		return fmt.Errorf("format name is required")
	}
	if s == nil {
		return fmt.Errorf("serializer for %q is nil", name)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.serializers[name] = s
	return nil
}

// Lookup returns the serializer registered for format
func (reg *Registry) Lookup(format string) (Serializer, error) {
	name := normalizeFormat(format)

	reg.mu.RLock()
	s, ok := reg.serializers[name]
	reg.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return s, nil
}

// Serialize renders r in the named format. On failure no output is returned.
func (reg *Registry) Serialize(r *core.Response, format string) ([]byte, error) {
	s, err := reg.Lookup(format)
	if err != nil {
		metrics.ExportFailures.WithLabelValues("unsupported").Inc()
		return nil, err
	}
	if r == nil {
		metrics.ExportFailures.WithLabelValues(normalizeFormat(format)).Inc()
		return nil, fmt.Errorf("cannot serialize nil response")
	}

	out, err := s(r)
	if err != nil {
		metrics.ExportFailures.WithLabelValues(normalizeFormat(format)).Inc()
		return nil, fmt.Errorf("failed to serialize response as %s: %w", format, err)
	}

	metrics.ExportsSerialized.WithLabelValues(normalizeFormat(format)).Inc()
	return out, nil
}

// Formats lists registered format names in sorted order
func (reg *Registry) Formats() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.serializers))
	for name := range reg.serializers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var defaultRegistry = NewRegistry()

// Serialize renders r using the default registry
func Serialize(r *core.Response, format string) ([]byte, error) {
	return defaultRegistry.Serialize(r, format)
}

// Default returns the process-wide registry used by Serialize
func Default() *Registry {
	return defaultRegistry
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}
