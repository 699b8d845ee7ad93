package export

import (
	"bytes"

	"alertwire/core"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// YAML renders r as a YAML mapping with the same keys as JSON
func YAML(r *core.Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewRecord(r)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MsgPack renders r as a MessagePack map. Map keys are sorted so the output is
// deterministic.
func MsgPack(r *core.Response) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(NewRecord(r)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseMsgPack reads a MessagePack record back into a canonical response
func ParseMsgPack(data []byte) (*core.Response, error) {
	var rec Record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec.Response()
}

// WithExtendedFormats registers the YAML and MessagePack serializers on reg
func WithExtendedFormats(reg *Registry) *Registry {
	_ = reg.Register(FormatYAML, YAML)
	_ = reg.Register(FormatMsgPack, MsgPack)
	return reg
}
