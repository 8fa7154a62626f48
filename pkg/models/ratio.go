package models

// Unit describes how a ratio value should be rendered.
type Unit string

const (
	UnitRatio    Unit = "ratio"    // plain multiple, e.g. current ratio 1.8
	UnitPercent  Unit = "percent"  // fraction to render as %, e.g. 0.42
	UnitAbsolute Unit = "absolute" // source currency unit (CNY 元)
)

// BaselineComparison is an optional industry-average comparison attached
// to a ratio result. The baseline is supplied by the caller; the engine
// only reports the delta and the relative position.
type BaselineComparison struct {
	Baseline float64 `json:"baseline"`
	Delta    Amount  `json:"delta"`
	// Position classifies the value relative to the baseline:
	// "above", "near", "below", or "unknown" when the metric value is NA.
	Position string `json:"position"`
}

// RatioResult is a single derived metric for one period. Results are
// ephemeral: recomputed on every analysis call, never persisted.
type RatioResult struct {
	Metric   string              `json:"metric"`
	Period   ReportPeriod        `json:"period"`
	Value    Amount              `json:"value"`
	Unit     Unit                `json:"unit"`
	Baseline *BaselineComparison `json:"baseline,omitempty"`
}
