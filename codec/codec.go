// Package codec converts between wire responses and canonical responses.
//
// Decode is strict: a priority or source tag missing from the decode tables
// fails the call. Encode resolves tags by canonical name through the schema
// package's own name tables, so it keeps working when the wire enums grow.
package codec

import (
	"fmt"
	"strings"
	"time"

	"alertwire/core"
	"alertwire/metrics"
	"alertwire/schema"

	"google.golang.org/protobuf/types/known/timestamppb"
)

var pbPriorityToPriority = map[schema.Priority]core.Priority{
	schema.PriorityEmergency:     core.PriorityEmergency,
	schema.PriorityAlert:         core.PriorityAlert,
	schema.PriorityCritical:      core.PriorityCritical,
	schema.PriorityError:         core.PriorityError,
	schema.PriorityWarning:       core.PriorityWarning,
	schema.PriorityNotice:        core.PriorityNotice,
	schema.PriorityInformational: core.PriorityInformational,
	schema.PriorityDebug:         core.PriorityDebug,
}

var pbSourceToSource = map[schema.Source]core.Source{
	schema.SourceSyscall:  core.SourceSyscall,
	schema.SourceK8sAudit: core.SourceK8sAudit,
}

// Decode builds a canonical response from a wire response. The wire time is
// read as seconds and nanoseconds since the Unix epoch in UTC. An absent time
// decodes as the epoch.
func Decode(pb *schema.Response) (*core.Response, error) {
	if pb == nil {
		return nil, fmt.Errorf("%w: nil response", schema.ErrMalformed)
	}

	priority, ok := pbPriorityToPriority[pb.Priority]
	if !ok {
		metrics.DecodeFailures.WithLabelValues(metrics.ReasonUnknownPriority).Inc()
		return nil, &EnumTagError{Field: FieldPriority, Tag: int32(pb.Priority)}
	}

	source, ok := pbSourceToSource[pb.Source]
	if !ok {
		metrics.DecodeFailures.WithLabelValues(metrics.ReasonUnknownSource).Inc()
		return nil, &EnumTagError{Field: FieldSource, Tag: int32(pb.Source)}
	}

	ts := pb.GetTime()
	if ts == nil {
		ts = &timestamppb.Timestamp{}
	}
	if err := ts.CheckValid(); err != nil {
		metrics.DecodeFailures.WithLabelValues(metrics.ReasonInvalidTime).Inc()
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidTimestamp, err)
	}

	r, err := core.NewResponse(time.Unix(ts.GetSeconds(), int64(ts.GetNanos())),
		priority, source, pb.Rule, pb.Output, pb.OutputFields, pb.Hostname)
	if err != nil {
		metrics.DecodeFailures.WithLabelValues(metrics.ReasonInvalidTime).Inc()
		return nil, err
	}

	metrics.ResponsesDecoded.WithLabelValues(source.String()).Inc()
	return r, nil
}

// DecodeBytes parses proto3 binary bytes and decodes the result
func DecodeBytes(b []byte) (*core.Response, error) {
	var pb schema.Response
	if err := schema.Unmarshal(b, &pb); err != nil {
		metrics.DecodeFailures.WithLabelValues(metrics.ReasonMalformed).Inc()
		return nil, err
	}
	return Decode(&pb)
}

// Encode builds a wire response from a canonical one. Unset enumerations
// cannot be encoded and fail with ErrUnrepresentableEnum.
func Encode(r *core.Response) (*schema.Response, error) {
	if r == nil {
		return nil, &UnrepresentableError{Field: FieldResponse}
	}

	priority, ok := lookupTag(schema.PriorityValue, r.Priority().IsValid(), r.Priority().String())
	if !ok {
		metrics.EncodeFailures.WithLabelValues(FieldPriority).Inc()
		return nil, &UnrepresentableError{Field: FieldPriority}
	}

	source, ok := lookupTag(schema.SourceValue, r.Source().IsValid(), r.Source().String())
	if !ok {
		metrics.EncodeFailures.WithLabelValues(FieldSource).Inc()
		return nil, &UnrepresentableError{Field: FieldSource}
	}

	metrics.ResponsesEncoded.Inc()
	return &schema.Response{
		Time:         timestamppb.New(r.Time()),
		Priority:     schema.Priority(priority),
		Source:       schema.Source(source),
		Rule:         r.Rule(),
		Output:       r.Output(),
		OutputFields: r.OutputFields(),
		Hostname:     r.Hostname(),
	}, nil
}

// EncodeBytes encodes r and marshals it to proto3 binary bytes
func EncodeBytes(r *core.Response) ([]byte, error) {
	pb, err := Encode(r)
	if err != nil {
		return nil, err
	}
	return schema.Marshal(pb)
}

func lookupTag(values map[string]int32, valid bool, name string) (int32, bool) {
	if !valid {
		return 0, false
	}
	if tag, ok := values[name]; ok {
		return tag, true
	}
	tag, ok := values[strings.ToUpper(name)]
	return tag, ok
}
