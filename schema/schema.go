// Package schema holds the wire form of a falco outputs.response message and
// its proto3 binary encoding.
package schema

// Priority is the wire enum falco.schema.priority
type Priority int32

// Source is the wire enum falco.schema.source
type Source int32

const (
	PriorityEmergency     Priority = 0
	PriorityAlert         Priority = 1
	PriorityCritical      Priority = 2
	PriorityError         Priority = 3
	PriorityWarning       Priority = 4
	PriorityNotice        Priority = 5
	PriorityInformational Priority = 6
	PriorityDebug         Priority = 7
)

const (
	SourceSyscall  Source = 0
	SourceK8sAudit Source = 1
	SourceInternal Source = 2
	SourcePlugin   Source = 3
)

// PriorityValue maps every declared priority name, aliases included, to its tag.
var PriorityValue = map[string]int32{
	"EMERGENCY":     0,
	"emergency":     0,
	"Emergency":     0,
	"ALERT":         1,
	"alert":         1,
	"Alert":         1,
	"CRITICAL":      2,
	"critical":      2,
	"Critical":      2,
	"ERROR":         3,
	"error":         3,
	"Error":         3,
	"WARNING":       4,
	"warning":       4,
	"Warning":       4,
	"NOTICE":        5,
	"notice":        5,
	"Notice":        5,
	"INFORMATIONAL": 6,
	"informational": 6,
	"Informational": 6,
	"DEBUG":         7,
	"debug":         7,
	"Debug":         7,
}

// PriorityName maps a tag to its primary declared name
var PriorityName = map[int32]string{
	0: "EMERGENCY",
	1: "ALERT",
	2: "CRITICAL",
	3: "ERROR",
	4: "WARNING",
	5: "NOTICE",
	6: "INFORMATIONAL",
	7: "DEBUG",
}

// SourceValue maps every declared source name, aliases included, to its tag.
var SourceValue = map[string]int32{
	"SYSCALL":   0,
	"syscall":   0,
	"Syscall":   0,
	"K8S_AUDIT": 1,
	"k8s_audit": 1,
	"K8s_audit": 1,
	"K8S_audit": 1,
	"INTERNAL":  2,
	"internal":  2,
	"Internal":  2,
	"PLUGIN":    3,
	"plugin":    3,
	"Plugin":    3,
}

// SourceName maps a tag to its primary declared name
var SourceName = map[int32]string{
	0: "SYSCALL",
	1: "K8S_AUDIT",
	2: "INTERNAL",
	3: "PLUGIN",
}

// String returns the primary declared name, or the number for undeclared tags
func (p Priority) String() string {
	return enumString(PriorityName, int32(p))
}

// String returns the primary declared name, or the number for undeclared tags
func (s Source) String() string {
	return enumString(SourceName, int32(s))
}
