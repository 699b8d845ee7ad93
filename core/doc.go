// Package core defines the canonical response model for alertwire.
//
// # Overview
//
// A Response is the validated, UTC-normalized in-memory form of one detection
// engine response. It holds:
//   - the event time, always in UTC
//   - a Priority and a Source, each a closed set with an explicit unset variant
//   - the rule name, output message, output fields and hostname
//
// # Validation Policies
//
// NewResponse, SetPriority and SetSource never fail on enumeration values:
// anything outside the closed set is stored as unset. Strict checking of wire
// tags lives in the codec package, which rejects unknown tags before a Response
// is ever built.
//
// Response values carry no locks. Distinct instances may be used from any
// number of goroutines; callers sharing one instance must serialize calls to
// the setters.
package core
