package schema

// RankSeverity returns the position of a severity in the total order
// critical > high > medium > low > info. Lower rank means more serious.
// Unknown severities rank below info.
func RankSeverity(s Severity) int {
	if rank, ok := severityRank[s]; ok {
		return rank
	}
	return len(severityRank)
}

// MoreSevere reports whether a is strictly more serious than b.
func MoreSevere(a, b Severity) bool {
	return RankSeverity(a) < RankSeverity(b)
}

// CountBySeverity returns the number of findings at the given severity.
func CountBySeverity(findings []Finding, s Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// CountByType returns the number of findings of the given type.
func CountByType(findings []Finding, t FindingType) int {
	n := 0
	for _, f := range findings {
		if f.Type == t {
			n++
		}
	}
	return n
}

// CountFixable returns the number of findings with an automatic fix available.
func CountFixable(findings []Finding) int {
	n := 0
	for _, f := range findings {
		if f.FixAvailable {
			n++
		}
	}
	return n
}
