// Package ingest reads and writes streams of length-delimited wire responses
// and converts them to and from export records.
package ingest

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	// DefaultMaxFrameSize bounds a single length-delimited frame (4MB)
	DefaultMaxFrameSize = 4 * 1024 * 1024
)

// ErrFrameTooLarge is returned when a frame header announces more than the
// configured maximum
var ErrFrameTooLarge = errors.New("frame exceeds maximum size")

// FrameReader reads varint length-prefixed frames, the framing used for
// streams of delimited protobuf messages
type FrameReader struct {
	r       *bufio.Reader
	maxSize int
}

// NewFrameReader wraps r. A non-positive maxSize selects DefaultMaxFrameSize.
func NewFrameReader(r io.Reader, maxSize int) *FrameReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}
	return &FrameReader{r: bufio.NewReader(r), maxSize: maxSize}
}

// Next returns the next frame. It returns io.EOF only when the stream ends
// cleanly between frames; a stream cut inside a frame yields io.ErrUnexpectedEOF.
func (fr *FrameReader) Next() ([]byte, error) {
	size, err := binary.ReadUvarint(fr.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame header: %w", err)
	}
	if size > uint64(fr.maxSize) {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, size, fr.maxSize)
	}

	frame := make([]byte, size)
	if _, err := io.ReadFull(fr.r, frame); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("failed to read frame body: %w", err)
	}
	return frame, nil
}

// FrameWriter writes varint length-prefixed frames
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter wraps w
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// Write emits one frame with a single write call
func (fw *FrameWriter) Write(frame []byte) error {
	buf := protowire.AppendVarint(make([]byte, 0, len(frame)+binary.MaxVarintLen64), uint64(len(frame)))
	buf = append(buf, frame...)
	if _, err := fw.w.Write(buf); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
