package export

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// RecordSchema is the JSON Schema every "json" export record satisfies
const RecordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["time", "priority", "source", "rule", "output", "output_fields", "hostname"],
  "properties": {
    "time": {"type": "string", "format": "date-time"},
    "priority": {"type": "string", "enum": ["emergency", "alert", "critical", "error", "warning", "notice", "informational", "debug"]},
    "source": {"type": "string", "enum": ["syscall", "k8s_audit"]},
    "rule": {"type": "string"},
    "output": {"type": "string"},
    "output_fields": {"type": "object", "additionalProperties": {"type": "string"}},
    "hostname": {"type": "string"}
  }
}`

var (
	recordSchemaOnce sync.Once
	recordSchema     *gojsonschema.Schema
	recordSchemaErr  error
)

func compiledRecordSchema() (*gojsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		recordSchema, recordSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(RecordSchema))
	})
	return recordSchema, recordSchemaErr
}

// ValidateJSON checks one JSON export record against RecordSchema
func ValidateJSON(data []byte) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return fmt.Errorf("failed to compile record schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate record: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("record validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}
