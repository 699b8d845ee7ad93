package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponse(t *testing.T) *Response {
	t.Helper()
	ts := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	r, err := NewResponse(ts, PriorityError, SourceSyscall, "suspicious_exec", "shell spawned",
		map[string]string{"proc": "bash"}, "host1")
	require.NoError(t, err)
	return r
}

func TestNewResponse(t *testing.T) {
	r := newTestResponse(t)
	assert.Equal(t, PriorityError, r.Priority())
	assert.Equal(t, SourceSyscall, r.Source())
	assert.Equal(t, "suspicious_exec", r.Rule())
	assert.Equal(t, "shell spawned", r.Output())
	assert.Equal(t, map[string]string{"proc": "bash"}, r.OutputFields())
	assert.Equal(t, "host1", r.Hostname())
	assert.Equal(t, time.UTC, r.Time().Location())
}

func TestNewResponse_NormalizesToUTC(t *testing.T) {
	zones := []*time.Location{
		time.FixedZone("plus5", 5*3600),
		time.FixedZone("minus8", -8*3600),
		time.FixedZone("plus530", 5*3600+1800),
		time.Local,
	}

	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			in := time.Date(2024, 2, 29, 12, 0, 0, 123456789, loc)
			r, err := NewResponse(in, PriorityNotice, SourceK8sAudit, "", "", nil, "")
			require.NoError(t, err)

			assert.Equal(t, time.UTC, r.Time().Location())
			_, offset := r.Time().Zone()
			assert.Zero(t, offset)
			assert.True(t, in.Equal(r.Time()))
		})
	}
}

func TestNewResponse_ZeroTime(t *testing.T) {
	r, err := NewResponse(time.Time{}, PriorityError, SourceSyscall, "rule", "out", nil, "host")
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, ErrInvalidTimestamp))
}

func TestNewResponse_InvalidEnumsBecomeUnset(t *testing.T) {
	r, err := NewResponse(time.Unix(0, 0), Priority(42), Source(9), "rule", "out", nil, "host")
	require.NoError(t, err)
	assert.Equal(t, PriorityUnset, r.Priority())
	assert.Equal(t, SourceUnset, r.Source())
}

func TestSetPriority(t *testing.T) {
	tests := []struct {
		name string
		in   Priority
		want Priority
	}{
		{"emergency", PriorityEmergency, PriorityEmergency},
		{"debug", PriorityDebug, PriorityDebug},
		{"unset", PriorityUnset, PriorityUnset},
		{"out of range", Priority(9), PriorityUnset},
		{"max byte", Priority(255), PriorityUnset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResponse(t)
			r.SetPriority(tt.in)
			assert.Equal(t, tt.want, r.Priority())

			// reassigning must behave like the first assignment
			r.SetPriority(tt.in)
			assert.Equal(t, tt.want, r.Priority())
		})
	}
}

func TestSetSource(t *testing.T) {
	r := newTestResponse(t)

	r.SetSource(SourceK8sAudit)
	assert.Equal(t, SourceK8sAudit, r.Source())

	r.SetSource(Source(3))
	assert.Equal(t, SourceUnset, r.Source())

	r.SetSource(SourceUnset)
	assert.Equal(t, SourceUnset, r.Source())

	r.SetSource(SourceSyscall)
	assert.Equal(t, SourceSyscall, r.Source())
}

func TestOutputFields_ReturnsCopy(t *testing.T) {
	fields := map[string]string{"proc": "bash"}
	r, err := NewResponse(time.Unix(1, 0), PriorityError, SourceSyscall, "", "", fields, "")
	require.NoError(t, err)

	fields["proc"] = "sh"
	got := r.OutputFields()
	assert.Equal(t, "bash", got["proc"])

	got["proc"] = "zsh"
	v, ok := r.OutputField("proc")
	assert.True(t, ok)
	assert.Equal(t, "bash", v)
}

func TestResponseString(t *testing.T) {
	r := newTestResponse(t)
	want := "Response(time=2023-11-14T22:13:20Z, priority=error, source=syscall, rule=suspicious_exec, " +
		"output=shell spawned, output_fields=map[proc:bash], hostname=host1)"
	assert.Equal(t, want, r.String())
	assert.Equal(t, r.String(), r.String())
}
