package autolink

// Relationship strength labels attached to auto-created edges.
const (
	LabelStronglyRelated   = "Strongly Related"
	LabelHighlyRelated     = "Highly Related"
	LabelRelated           = "Related"
	LabelModeratelyRelated = "Moderately Related"
	LabelWeaklyRelated     = "Weakly Related"
)

// LabelFor maps a similarity score to a human-readable relationship label.
// The fixed bands take precedence; scores between the effective threshold
// and 0.6 are labeled weakly related. Scores below the threshold never
// reach this function during linking, so the fallback only matters for
// callers labeling arbitrary scores.
func LabelFor(score, threshold float64) string {
	switch {
	case score >= 0.9:
		return LabelStronglyRelated
	case score >= 0.8:
		return LabelHighlyRelated
	case score >= 0.7:
		return LabelRelated
	case score >= 0.6:
		return LabelModeratelyRelated
	case score >= threshold:
		return LabelWeaklyRelated
	default:
		return LabelRelated
	}
}
