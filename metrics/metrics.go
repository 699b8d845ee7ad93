package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decode failure reasons
const (
	ReasonMalformed       = "malformed"
	ReasonUnknownPriority = "unknown_priority"
	ReasonUnknownSource   = "unknown_source"
	ReasonInvalidTime     = "invalid_time"
)

var (
	ResponsesDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertwire_responses_decoded_total",
			Help: "Total number of wire responses decoded",
		},
		[]string{"source"},
	)

	DecodeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertwire_decode_failures_total",
			Help: "Total number of wire responses rejected during decode",
		},
		[]string{"reason"},
	)

	ResponsesEncoded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alertwire_responses_encoded_total",
			Help: "Total number of responses encoded to wire form",
		},
	)

	EncodeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertwire_encode_failures_total",
			Help: "Total number of responses that could not be encoded",
		},
		[]string{"field"},
	)

	ExportsSerialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertwire_exports_serialized_total",
			Help: "Total number of responses serialized to an export format",
		},
		[]string{"format"},
	)

	ExportFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertwire_export_failures_total",
			Help: "Total number of failed export serializations",
		},
		[]string{"format"},
	)

	StreamFramesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alertwire_stream_frames_read_total",
			Help: "Total number of length-delimited frames read from input streams",
		},
	)

	StreamFramesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alertwire_stream_frames_skipped_total",
			Help: "Total number of frames skipped after a conversion error",
		},
		[]string{"reason"},
	)
)
