package schema

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ErrMalformed is returned when bytes cannot be parsed as a response message
var ErrMalformed = errors.New("malformed response message")

// Field numbers of outputs.response
const (
	fieldTime         protowire.Number = 1
	fieldPriority     protowire.Number = 2
	fieldSource       protowire.Number = 3
	fieldRule         protowire.Number = 4
	fieldOutput       protowire.Number = 5
	fieldOutputFields protowire.Number = 6
	fieldHostname     protowire.Number = 7
)

// Field numbers of the output_fields map entry
const (
	entryKey   protowire.Number = 1
	entryValue protowire.Number = 2
)

// Response is the wire form of a falco outputs.response message
type Response struct {
	Time         *timestamppb.Timestamp
	Priority     Priority
	Source       Source
	Rule         string
	Output       string
	OutputFields map[string]string
	Hostname     string
}

// GetTime returns the timestamp, or nil when r or its time is absent
func (r *Response) GetTime() *timestamppb.Timestamp {
	if r == nil {
		return nil
	}
	return r.Time
}

// Marshal encodes r in proto3 binary form. Zero-valued scalars are omitted and
// output_fields entries are written in key order, so equal messages always
// produce equal bytes.
func Marshal(r *Response) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	var b []byte
	if r.Time != nil {
		ts, err := proto.MarshalOptions{Deterministic: true}.Marshal(r.Time)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal time: %w", err)
		}
		b = protowire.AppendTag(b, fieldTime, protowire.BytesType)
		b = protowire.AppendBytes(b, ts)
	}
	b = appendEnum(b, fieldPriority, int32(r.Priority))
	b = appendEnum(b, fieldSource, int32(r.Source))
	b = appendString(b, fieldRule, r.Rule)
	b = appendString(b, fieldOutput, r.Output)

	keys := make([]string, 0, len(r.OutputFields))
	for k := range r.OutputFields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, entryKey, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		entry = protowire.AppendTag(entry, entryValue, protowire.BytesType)
		entry = protowire.AppendString(entry, r.OutputFields[k])

		b = protowire.AppendTag(b, fieldOutputFields, protowire.BytesType)
		b = protowire.AppendBytes(b, entry)
	}

	b = appendString(b, fieldHostname, r.Hostname)
	return b, nil
}

// Unmarshal parses proto3 binary bytes into r, replacing its contents.
// Unknown fields, and known fields carrying an unexpected wire type, are skipped.
func Unmarshal(b []byte, r *Response) error {
	*r = Response{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return malformed("tag", protowire.ParseError(n))
		}
		b = b[n:]

		consumed, err := r.consumeField(num, typ, b)
		if err != nil {
			return err
		}
		b = b[consumed:]
	}
	return nil
}

func (r *Response) consumeField(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	switch {
	case num == fieldTime && typ == protowire.BytesType:
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, malformed("time", protowire.ParseError(n))
		}
		if r.Time == nil {
			r.Time = &timestamppb.Timestamp{}
		}
		// repeated occurrences of a message field merge
		if err := (proto.UnmarshalOptions{Merge: true}).Unmarshal(v, r.Time); err != nil {
			return 0, malformed("time", err)
		}
		return n, nil

	case num == fieldPriority && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, malformed("priority", protowire.ParseError(n))
		}
		r.Priority = Priority(int32(v))
		return n, nil

	case num == fieldSource && typ == protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, malformed("source", protowire.ParseError(n))
		}
		r.Source = Source(int32(v))
		return n, nil

	case num == fieldRule && typ == protowire.BytesType:
		return consumeString(b, "rule", &r.Rule)

	case num == fieldOutput && typ == protowire.BytesType:
		return consumeString(b, "output", &r.Output)

	case num == fieldHostname && typ == protowire.BytesType:
		return consumeString(b, "hostname", &r.Hostname)

	case num == fieldOutputFields && typ == protowire.BytesType:
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, malformed("output_fields", protowire.ParseError(n))
		}
		key, value, err := parseMapEntry(v)
		if err != nil {
			return 0, err
		}
		if r.OutputFields == nil {
			r.OutputFields = make(map[string]string)
		}
		r.OutputFields[key] = value
		return n, nil
	}

	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, malformed("field "+strconv.Itoa(int(num)), protowire.ParseError(n))
	}
	return n, nil
}

func parseMapEntry(b []byte) (key, value string, err error) {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", "", malformed("output_fields entry", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == entryKey && typ == protowire.BytesType:
			n, err = consumeString(b, "output_fields key", &key)
		case num == entryValue && typ == protowire.BytesType:
			n, err = consumeString(b, "output_fields value", &value)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				err = malformed("output_fields entry", protowire.ParseError(n))
			}
		}
		if err != nil {
			return "", "", err
		}
		b = b[n:]
	}
	return key, value, nil
}

func consumeString(b []byte, field string, dst *string) (int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, malformed(field, protowire.ParseError(n))
	}
	if !utf8.ValidString(v) {
		return 0, malformed(field, errors.New("invalid UTF-8"))
	}
	*dst = v
	return n, nil
}

func appendEnum(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func enumString(names map[int32]string, v int32) string {
	if name, ok := names[v]; ok {
		return name
	}
	return strconv.Itoa(int(v))
}

func malformed(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, field, err)
}
