package vectorstore

import "fmt"

// ScoreKind identifies the unit of a raw backend score. The normalization
// rule must match the backend that produced the score; mixing rules
// silently produces wrong percentages.
type ScoreKind int

const (
	// KindCosine is a native cosine similarity, higher is more similar,
	// in practice within [0, 1] for this catalog.
	KindCosine ScoreKind = iota

	// KindL2Squared is a squared Euclidean distance, lower is more
	// similar, unbounded above zero.
	KindL2Squared
)

// Percent converts a raw backend score into the canonical similarity
// percentage consumed by all downstream formatting.
//
// For squared L2 distance d on unit-normalized vectors the identity
// ||a-b||² = 2 - 2·cos(a,b) gives cos = 1 - d/2. Values are passed through
// unclamped: vectors that are not unit-normalized can push the result
// outside [0, 100], and callers must tolerate that.
func Percent(raw float64, kind ScoreKind) float64 {
	switch kind {
	case KindL2Squared:
		return (1 - raw/2) * 100
	default:
		return raw * 100
	}
}

// FormatPercent renders a similarity percentage with two decimals,
// e.g. "87.32%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}
