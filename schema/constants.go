package schema

// Custom string types for type safety.
type (
	// Severity represents how serious a finding is.
	Severity string

	// FindingType represents the category of a finding.
	FindingType string

	// Priority represents how urgent a recommendation is.
	Priority string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All severity levels supported, from most to least serious.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// All finding types supported.
const (
	TypeStyle           FindingType = "style"
	TypeTypeError       FindingType = "type_error"
	TypeComplexity      FindingType = "complexity"
	TypeSecurity        FindingType = "security"
	TypePerformance     FindingType = "performance"
	TypeMaintainability FindingType = "maintainability"
	TypeBug             FindingType = "bug"
	TypeCodeSmell       FindingType = "code_smell"
)

// All recommendation priorities supported.
const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// All output modes supported.
const (
	JSONOut OutputMode = "json" // default
	TextOut OutputMode = "text"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllSeverities lists every severity from most to least serious.
// The order is the canonical sort order for reports.
var AllSeverities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// AllFindingTypes lists every finding type in report display order.
var AllFindingTypes = []FindingType{
	TypeStyle,
	TypeTypeError,
	TypeComplexity,
	TypeSecurity,
	TypePerformance,
	TypeMaintainability,
	TypeBug,
	TypeCodeSmell,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	JSONOut: {},
	TextOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// severityRank maps each severity to its position in the total order.
// Lower rank means more serious.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}
