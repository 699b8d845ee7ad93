package core

import "strings"

// Priority is the severity of a response, ordered from most to least severe.
// The zero value is PriorityUnset.
type Priority uint8

const (
	// PriorityUnset marks a priority that was absent or outside the closed set
	PriorityUnset Priority = iota
	PriorityEmergency
	PriorityAlert
	PriorityCritical
	PriorityError
	PriorityWarning
	PriorityNotice
	PriorityInformational
	PriorityDebug
)

var priorityNames = [...]string{
	PriorityUnset:         "unset",
	PriorityEmergency:     "emergency",
	PriorityAlert:         "alert",
	PriorityCritical:      "critical",
	PriorityError:         "error",
	PriorityWarning:       "warning",
	PriorityNotice:        "notice",
	PriorityInformational: "informational",
	PriorityDebug:         "debug",
}

// String returns the lowercase canonical name
func (p Priority) String() string {
	if !p.IsValid() {
		return priorityNames[PriorityUnset]
	}
	return priorityNames[p]
}

// IsValid reports whether p is a member of the closed priority set
func (p Priority) IsValid() bool {
	return p >= PriorityEmergency && p <= PriorityDebug
}

// MoreSevereThan reports whether p outranks other. An unset priority never
// outranks anything and is outranked by every valid priority.
func (p Priority) MoreSevereThan(other Priority) bool {
	if !p.IsValid() {
		return false
	}
	if !other.IsValid() {
		return true
	}
	return p < other
}

// ParsePriority looks up a priority by name, ignoring case. Unknown names
// yield PriorityUnset.
func ParsePriority(name string) Priority {
	name = strings.ToLower(strings.TrimSpace(name))
	for p := PriorityEmergency; p <= PriorityDebug; p++ {
		if priorityNames[p] == name {
			return p
		}
	}
	return PriorityUnset
}

// Priorities returns every valid priority, most severe first
func Priorities() []Priority {
	out := make([]Priority, 0, PriorityDebug)
	for p := PriorityEmergency; p <= PriorityDebug; p++ {
		out = append(out, p)
	}
	return out
}

// Source identifies the subsystem that produced a response.
// The zero value is SourceUnset.
type Source uint8

const (
	// SourceUnset marks a source that was absent or outside the closed set
	SourceUnset Source = iota
	SourceSyscall
	SourceK8sAudit
)

var sourceNames = [...]string{
	SourceUnset:    "unset",
	SourceSyscall:  "syscall",
	SourceK8sAudit: "k8s_audit",
}

// String returns the lowercase canonical name
func (s Source) String() string {
	if !s.IsValid() {
		return sourceNames[SourceUnset]
	}
	return sourceNames[s]
}

// IsValid reports whether s is a member of the closed source set
func (s Source) IsValid() bool {
	switch s {
	case SourceSyscall, SourceK8sAudit:
		return true
	default:
		return false
	}
}

// ParseSource looks up a source by name, ignoring case. Unknown names yield
// SourceUnset.
func ParseSource(name string) Source {
	name = strings.ToLower(strings.TrimSpace(name))
	for s := SourceSyscall; s <= SourceK8sAudit; s++ {
		if sourceNames[s] == name {
			return s
		}
	}
	return SourceUnset
}

// Sources returns every valid source
func Sources() []Source {
	return []Source{SourceSyscall, SourceK8sAudit}
}
