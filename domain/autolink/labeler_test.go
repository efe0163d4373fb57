package autolink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelFor(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		threshold float64
		want      string
	}{
		{name: "perfect match", score: 1.0, threshold: 0.5, want: LabelStronglyRelated},
		{name: "exactly 0.9", score: 0.9, threshold: 0.5, want: LabelStronglyRelated},
		{name: "just under 0.9", score: 0.899, threshold: 0.5, want: LabelHighlyRelated},
		{name: "exactly 0.8", score: 0.8, threshold: 0.5, want: LabelHighlyRelated},
		{name: "exactly 0.7", score: 0.7, threshold: 0.5, want: LabelRelated},
		{name: "exactly 0.6", score: 0.6, threshold: 0.5, want: LabelModeratelyRelated},
		{name: "between threshold and 0.6", score: 0.55, threshold: 0.5, want: LabelWeaklyRelated},
		{name: "exactly at threshold", score: 0.5, threshold: 0.5, want: LabelWeaklyRelated},
		{name: "below threshold falls back", score: 0.3, threshold: 0.5, want: LabelRelated},
		{name: "low threshold widens weak band", score: 0.1, threshold: 0.05, want: LabelWeaklyRelated},
		{name: "high threshold still respects fixed bands", score: 0.95, threshold: 0.9, want: LabelStronglyRelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelFor(tt.score, tt.threshold))
		})
	}
}

func TestLabelForIsMonotonic(t *testing.T) {
	// Walking the score down from 1.0 must never produce a stronger label.
	rank := map[string]int{
		LabelStronglyRelated:   5,
		LabelHighlyRelated:     4,
		LabelRelated:           3,
		LabelModeratelyRelated: 2,
		LabelWeaklyRelated:     1,
	}

	prev := rank[LabelFor(1.0, 0.5)]
	for score := 0.99; score >= 0.5; score -= 0.01 {
		cur := rank[LabelFor(score, 0.5)]
		assert.LessOrEqual(t, cur, prev, "label strengthened at score %f", score)
		prev = cur
	}
}
