package analysis

// DefaultBaselines returns a generic all-industry baseline table for peer
// comparison. Margins and returns are fractions; turnovers and liquidity
// ratios are multiples. Callers with sector-specific averages should pass
// their own table instead.
func DefaultBaselines() Baselines {
	return Baselines{
		MetricGrossMargin:         0.25,
		MetricNetMargin:           0.08,
		MetricROA:                 0.04,
		MetricROE:                 0.10,
		MetricDebtRatio:           0.45,
		MetricCurrentRatio:        1.5,
		MetricQuickRatio:          1.0,
		MetricAssetTurnover:       0.6,
		MetricReceivablesTurnover: 8.0,
		MetricInventoryTurnover:   6.0,
	}
}
