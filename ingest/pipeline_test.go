package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"alertwire/codec"
	"alertwire/export"
	"alertwire/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap/zaptest"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func wireFrame(t *testing.T, priority schema.Priority, source schema.Source, rule string) []byte {
	t.Helper()
	b, err := schema.Marshal(&schema.Response{
		Time:         &timestamppb.Timestamp{Seconds: 1700000000},
		Priority:     priority,
		Source:       source,
		Rule:         rule,
		Output:       "shell spawned",
		OutputFields: map[string]string{"proc": "bash"},
		Hostname:     "host1",
	})
	require.NoError(t, err)
	return b
}

func frameStream(t *testing.T, frames ...[]byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	for _, f := range frames {
		require.NoError(t, w.Write(f))
	}
	return &buf
}

func TestFrameRoundTrip(t *testing.T) {
	frames := [][]byte{[]byte("a"), {}, bytes.Repeat([]byte("x"), 300)}
	r := NewFrameReader(frameStream(t, frames...), 0)

	for _, want := range frames {
		got, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFrameReader_TooLarge(t *testing.T) {
	r := NewFrameReader(frameStream(t, make([]byte, 65)), 64)
	_, err := r.Next()
	assert.True(t, errors.Is(err, ErrFrameTooLarge))
}

func TestFrameReader_Truncated(t *testing.T) {
	buf := frameStream(t, []byte("hello"))
	data := buf.Bytes()[:buf.Len()-2]

	_, err := NewFrameReader(bytes.NewReader(data), 0).Next()
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	// header cut mid-varint
	_, err = NewFrameReader(bytes.NewReader([]byte{0x80}), 0).Next()
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestConverter_JSONLines(t *testing.T) {
	in := frameStream(t,
		wireFrame(t, schema.PriorityError, schema.SourceSyscall, "suspicious_exec"),
		wireFrame(t, schema.PriorityDebug, schema.SourceK8sAudit, "k8s_rule"),
	)

	conv, err := NewConverter(Options{Format: "json", Logger: zaptest.NewLogger(t).Sugar()})
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := conv.Convert(context.Background(), in, &out)
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 2, Converted: 2}, stats)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"time":"2023-11-14T22:13:20+00:00","priority":"error","source":"syscall","rule":"suspicious_exec",`+
		`"output":"shell spawned","output_fields":{"proc":"bash"},"hostname":"host1"}`, lines[0])
	assert.Contains(t, lines[1], `"priority":"debug","source":"k8s_audit","rule":"k8s_rule"`)
	for _, line := range lines {
		assert.NoError(t, export.ValidateJSON([]byte(line)))
	}
}

func TestConverter_StopsOnBadFrame(t *testing.T) {
	in := frameStream(t,
		wireFrame(t, schema.PriorityError, schema.SourceSyscall, "first"),
		wireFrame(t, schema.PriorityError, schema.SourcePlugin, "plugin"),
		wireFrame(t, schema.PriorityError, schema.SourceSyscall, "third"),
	)

	conv, err := NewConverter(Options{Format: "json"})
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := conv.Convert(context.Background(), in, &out)
	assert.True(t, errors.Is(err, codec.ErrUnknownEnumTag))
	assert.Equal(t, Stats{Read: 2, Converted: 1}, stats)
	assert.Contains(t, out.String(), `"rule":"first"`)
	assert.NotContains(t, out.String(), `"rule":"third"`)
}

func TestConverter_SkipOnError(t *testing.T) {
	in := frameStream(t,
		wireFrame(t, schema.PriorityError, schema.SourceSyscall, "first"),
		wireFrame(t, schema.Priority(12), schema.SourceSyscall, "bad"),
		[]byte{0x0a, 0x09},
		wireFrame(t, schema.PriorityError, schema.SourceSyscall, "third"),
	)

	conv, err := NewConverter(Options{Format: "json", SkipOnError: true, Logger: zaptest.NewLogger(t).Sugar()})
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := conv.Convert(context.Background(), in, &out)
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 4, Converted: 2, Skipped: 2}, stats)
	assert.Contains(t, out.String(), `"rule":"third"`)
}

func TestConverter_UnsupportedFormat(t *testing.T) {
	conv, err := NewConverter(Options{Format: "xml"})
	assert.Nil(t, conv)
	assert.True(t, errors.Is(err, export.ErrUnsupportedFormat))

	// yaml is only available on a registry that opts in
	_, err = NewConverter(Options{Format: "yaml"})
	assert.True(t, errors.Is(err, export.ErrUnsupportedFormat))

	conv, err = NewConverter(Options{Format: "yaml", Registry: export.WithExtendedFormats(export.NewRegistry())})
	require.NoError(t, err)
	assert.NotNil(t, conv)
}

func TestConverter_MsgPackIsUndelimited(t *testing.T) {
	in := frameStream(t,
		wireFrame(t, schema.PriorityAlert, schema.SourceSyscall, "one"),
		wireFrame(t, schema.PriorityAlert, schema.SourceSyscall, "two"),
	)
	conv, err := NewConverter(Options{Format: "msgpack", Registry: export.WithExtendedFormats(export.NewRegistry())})
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = conv.Convert(context.Background(), in, &out)
	require.NoError(t, err)

	dec := msgpack.NewDecoder(&out)
	var rules []string
	for {
		var rec export.Record
		if err := dec.Decode(&rec); err != nil {
			break
		}
		rules = append(rules, rec.Rule)
	}
	assert.Equal(t, []string{"one", "two"}, rules)
}

func TestConverter_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv, err := NewConverter(Options{Format: "json"})
	require.NoError(t, err)

	in := frameStream(t, wireFrame(t, schema.PriorityError, schema.SourceSyscall, "r"))
	stats, err := conv.Convert(ctx, in, io.Discard)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, stats.Read)
}

func TestConverter_TruncatedStream(t *testing.T) {
	buf := frameStream(t, wireFrame(t, schema.PriorityError, schema.SourceSyscall, "r"))
	data := buf.Bytes()[:buf.Len()-3]

	conv, err := NewConverter(Options{Format: "json", SkipOnError: true})
	require.NoError(t, err)

	_, err = conv.Convert(context.Background(), bytes.NewReader(data), io.Discard)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestEncoder_RoundTrip(t *testing.T) {
	original := frameStream(t,
		wireFrame(t, schema.PriorityError, schema.SourceSyscall, "suspicious_exec"),
		wireFrame(t, schema.PriorityNotice, schema.SourceK8sAudit, "audit"),
	)
	want := append([]byte(nil), original.Bytes()...)

	conv, err := NewConverter(Options{Format: "json"})
	require.NoError(t, err)
	var lines bytes.Buffer
	_, err = conv.Convert(context.Background(), original, &lines)
	require.NoError(t, err)

	var frames bytes.Buffer
	stats, err := NewEncoder(Options{}).Encode(context.Background(), &lines, &frames)
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 2, Converted: 2}, stats)
	assert.Equal(t, want, frames.Bytes())
}

func TestEncoder_Errors(t *testing.T) {
	input := strings.Join([]string{
		`{"time":"2023-11-14T22:13:20+00:00","priority":"error","source":"syscall","rule":"ok"}`,
		``,
		`{"time":"2023-11-14T22:13:20+00:00","priority":"loud","source":"syscall","rule":"unset"}`,
		`garbage`,
	}, "\n")

	var out bytes.Buffer
	stats, err := NewEncoder(Options{}).Encode(context.Background(), strings.NewReader(input), &out)
	assert.True(t, errors.Is(err, codec.ErrUnrepresentableEnum))
	assert.Equal(t, Stats{Read: 2, Converted: 1}, stats)

	out.Reset()
	stats, err = NewEncoder(Options{SkipOnError: true, Logger: zaptest.NewLogger(t).Sugar()}).
		Encode(context.Background(), strings.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, Stats{Read: 3, Converted: 1, Skipped: 2}, stats)

	frame, err := NewFrameReader(&out, 0).Next()
	require.NoError(t, err)
	r, err := codec.DecodeBytes(frame)
	require.NoError(t, err)
	assert.Equal(t, "ok", r.Rule())
}

func TestEncoder_LineTooLong(t *testing.T) {
	line := `{"time":"2023-11-14T22:13:20+00:00","rule":"` + strings.Repeat("x", 200) + `"}`
	_, err := NewEncoder(Options{MaxFrameSize: 64}).Encode(context.Background(), strings.NewReader(line), io.Discard)
	assert.True(t, errors.Is(err, ErrFrameTooLarge))
}
