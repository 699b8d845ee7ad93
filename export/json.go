package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"alertwire/core"
)

// Format names
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgPack = "msgpack"
)

// TimeLayout is ISO-8601 with a numeric UTC offset. Fractional seconds are
// written only when non-zero, without trailing zeros.
const TimeLayout = "2006-01-02T15:04:05.999999999-07:00"

// Record is the flat export layout shared by every built-in format.
// Field order is the order keys are written.
type Record struct {
	Time         string            `json:"time" yaml:"time" msgpack:"time"`
	Priority     string            `json:"priority" yaml:"priority" msgpack:"priority"`
	Source       string            `json:"source" yaml:"source" msgpack:"source"`
	Rule         string            `json:"rule" yaml:"rule" msgpack:"rule"`
	Output       string            `json:"output" yaml:"output" msgpack:"output"`
	OutputFields map[string]string `json:"output_fields" yaml:"output_fields" msgpack:"output_fields"`
	Hostname     string            `json:"hostname" yaml:"hostname" msgpack:"hostname"`
}

// NewRecord flattens r. A response without output fields gets an empty map so
// the field always serializes as an object.
func NewRecord(r *core.Response) Record {
	fields := r.OutputFields()
	if fields == nil {
		fields = map[string]string{}
	}
	return Record{
		Time:         r.Time().UTC().Format(TimeLayout),
		Priority:     r.Priority().String(),
		Source:       r.Source().String(),
		Rule:         r.Rule(),
		Output:       r.Output(),
		OutputFields: fields,
		Hostname:     r.Hostname(),
	}
}

// Response rebuilds a canonical response from the record. Enumeration names
// are matched leniently; an unknown name yields the unset value.
func (rec Record) Response() (*core.Response, error) {
	if strings.TrimSpace(rec.Time) == "" {
		return nil, fmt.Errorf("%w: time is empty", core.ErrInvalidTimestamp)
	}
	t, err := time.Parse(time.RFC3339Nano, rec.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidTimestamp, err)
	}
	return core.NewResponse(t, core.ParsePriority(rec.Priority), core.ParseSource(rec.Source),
		rec.Rule, rec.Output, rec.OutputFields, rec.Hostname)
}

// JSON renders r as one compact JSON object. Map keys are sorted, so equal
// responses always render identically. HTML characters are not escaped.
func JSON(r *core.Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewRecord(r)); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ParseJSON reads one JSON export record back into a canonical response
func ParseJSON(data []byte) (*core.Response, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse export record: %w", err)
	}
	return rec.Response()
}
