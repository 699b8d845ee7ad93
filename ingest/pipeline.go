package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"alertwire/codec"
	"alertwire/export"
	"alertwire/metrics"

	"go.uber.org/zap"
)

// Skip reasons recorded when SkipOnError drops a frame or line
const (
	skipDecode    = "decode"
	skipSerialize = "serialize"
	skipParse     = "parse"
	skipEncode    = "encode"
)

// Options configures a Converter or an Encoder
type Options struct {
	// Format is the export format name looked up in Registry
	Format string
	// SkipOnError drops bad frames or lines instead of aborting
	SkipOnError bool
	// MaxFrameSize bounds one input frame or line; zero selects DefaultMaxFrameSize
	MaxFrameSize int
	// Registry supplies serializers; nil selects export.Default()
	Registry *export.Registry
	Logger   *zap.SugaredLogger
}

// Stats summarizes one run
type Stats struct {
	Read      int
	Converted int
	Skipped   int
}

// Converter turns a stream of length-delimited wire responses into export
// records, one per line. MessagePack records are written back to back since
// the format is self-delimiting.
type Converter struct {
	serializer   export.Serializer
	format       string
	skipOnError  bool
	maxFrameSize int
	logger       *zap.SugaredLogger
}

// NewConverter resolves the export format up front so an unsupported format
// fails before any input is read
func NewConverter(opts Options) (*Converter, error) {
	reg := opts.Registry
	if reg == nil {
		reg = export.Default()
	}
	serializer, err := reg.Lookup(opts.Format)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Converter{
		serializer:   serializer,
		format:       strings.ToLower(strings.TrimSpace(opts.Format)),
		skipOnError:  opts.SkipOnError,
		maxFrameSize: opts.MaxFrameSize,
		logger:       logger,
	}, nil
}

// Convert reads frames from in until EOF, writing one record per frame to out.
// Framing errors always abort because the stream cannot be resynchronized.
func (c *Converter) Convert(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats
	frames := NewFrameReader(in, c.maxFrameSize)
	w := bufio.NewWriter(out)
	separator := []byte("\n")
	if c.format == export.FormatMsgPack {
		separator = nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, errors.Join(err, w.Flush())
		}

		frame, err := frames.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, errors.Join(fmt.Errorf("frame %d: %w", stats.Read+1, err), w.Flush())
		}
		stats.Read++
		metrics.StreamFramesRead.Inc()

		r, err := codec.DecodeBytes(frame)
		if err != nil {
			if c.skip(&stats, skipDecode, err) {
				continue
			}
			return stats, errors.Join(fmt.Errorf("frame %d: %w", stats.Read, err), w.Flush())
		}

		record, err := c.serializer(r)
		if err != nil {
			if c.skip(&stats, skipSerialize, err) {
				continue
			}
			return stats, errors.Join(fmt.Errorf("frame %d: %w", stats.Read, err), w.Flush())
		}
		metrics.ExportsSerialized.WithLabelValues(c.format).Inc()

		if _, err := w.Write(record); err != nil {
			return stats, fmt.Errorf("failed to write record: %w", err)
		}
		if _, err := w.Write(separator); err != nil {
			return stats, fmt.Errorf("failed to write record: %w", err)
		}
		stats.Converted++
		c.logger.Debugw("Converted response", "frame", stats.Read, "rule", r.Rule(), "priority", r.Priority().String())
	}

	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}
	return stats, nil
}

func (c *Converter) skip(stats *Stats, reason string, err error) bool {
	if !c.skipOnError {
		return false
	}
	stats.Skipped++
	metrics.StreamFramesSkipped.WithLabelValues(reason).Inc()
	c.logger.Warnw("Skipping frame", "frame", stats.Read, "reason", reason, "error", err)
	return true
}

// Encoder turns JSON export records, one per line, back into a stream of
// length-delimited wire responses
type Encoder struct {
	skipOnError  bool
	maxFrameSize int
	logger       *zap.SugaredLogger
}

// NewEncoder builds an Encoder. Format and Registry in opts are ignored.
func NewEncoder(opts Options) *Encoder {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	maxSize := opts.MaxFrameSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}
	return &Encoder{skipOnError: opts.SkipOnError, maxFrameSize: maxSize, logger: logger}
}

// Encode reads JSON lines from in and writes one frame per record to out.
// Blank lines are ignored.
func (e *Encoder) Encode(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, min(64*1024, e.maxFrameSize)), e.maxFrameSize)
	frames := NewFrameWriter(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Read++

		r, err := export.ParseJSON(line)
		if err != nil {
			if e.skip(&stats, skipParse, err) {
				continue
			}
			return stats, fmt.Errorf("line %d: %w", stats.Read, err)
		}

		frame, err := codec.EncodeBytes(r)
		if err != nil {
			if e.skip(&stats, skipEncode, err) {
				continue
			}
			return stats, fmt.Errorf("line %d: %w", stats.Read, err)
		}

		if err := frames.Write(frame); err != nil {
			return stats, err
		}
		stats.Converted++
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return stats, fmt.Errorf("line %d: %w", stats.Read+1, ErrFrameTooLarge)
		}
		return stats, fmt.Errorf("failed to read input: %w", err)
	}
	return stats, nil
}

func (e *Encoder) skip(stats *Stats, reason string, err error) bool {
	if !e.skipOnError {
		return false
	}
	stats.Skipped++
	metrics.StreamFramesSkipped.WithLabelValues(reason).Inc()
	e.logger.Warnw("Skipping record", "line", stats.Read, "reason", reason, "error", err)
	return true
}
