package core

import (
	"errors"
	"fmt"
	"maps"
	"time"
)

// ErrInvalidTimestamp is returned when a response is built from a time that
// does not identify an absolute instant.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Response is the canonical form of a single detection engine response.
// It is read-only after construction apart from SetPriority and SetSource.
type Response struct {
	time         time.Time
	priority     Priority
	source       Source
	rule         string
	output       string
	outputFields map[string]string
	hostname     string
}

// NewResponse builds a Response with its time normalized to UTC.
// Priority and source values outside their closed sets are stored as unset.
func NewResponse(t time.Time, priority Priority, source Source, rule, output string, outputFields map[string]string, hostname string) (*Response, error) {
	if t.IsZero() {
		return nil, fmt.Errorf("%w: time carries no instant", ErrInvalidTimestamp)
	}

	r := &Response{
		time:         t.UTC(),
		rule:         rule,
		output:       output,
		outputFields: maps.Clone(outputFields),
		hostname:     hostname,
	}
	r.SetPriority(priority)
	r.SetSource(source)
	return r, nil
}

// SetPriority assigns p, or PriorityUnset when p is not a valid priority
func (r *Response) SetPriority(p Priority) {
	r.priority = PriorityUnset
	if p.IsValid() {
		r.priority = p
	}
}

// SetSource assigns s, or SourceUnset when s is not a valid source
func (r *Response) SetSource(s Source) {
	r.source = SourceUnset
	if s.IsValid() {
		r.source = s
	}
}

// Time returns the response time in UTC
func (r *Response) Time() time.Time { return r.time }

// Priority returns the response priority
func (r *Response) Priority() Priority { return r.priority }

// Source returns the response source
func (r *Response) Source() Source { return r.source }

// Rule returns the name of the rule that fired
func (r *Response) Rule() string { return r.rule }

// Output returns the human-readable event message
func (r *Response) Output() string { return r.output }

// Hostname returns the producing host
func (r *Response) Hostname() string { return r.hostname }

// OutputFields returns a copy of the structured fields extracted by the rule
func (r *Response) OutputFields() map[string]string {
	return maps.Clone(r.outputFields)
}

// OutputField returns a single output field
func (r *Response) OutputField(key string) (string, bool) {
	v, ok := r.outputFields[key]
	return v, ok
}

// String renders every field by name. Map keys print in sorted order, so the
// result is deterministic. Intended for logs only.
func (r *Response) String() string {
	return fmt.Sprintf("Response(time=%s, priority=%s, source=%s, rule=%s, output=%s, output_fields=%v, hostname=%s)",
		r.time.Format(time.RFC3339Nano), r.priority, r.source, r.rule, r.output, r.outputFields, r.hostname)
}
