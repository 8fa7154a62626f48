package analysis

import (
	"fmt"

	"github.com/junyangz/cninsight/pkg/models"
)

// Kind selects which metric catalog Analyze computes.
type Kind string

const (
	KindProfitability Kind = "profitability"
	KindSolvency      Kind = "solvency"
	KindEfficiency    Kind = "efficiency"
	KindCashFlow      Kind = "cashflow"
	KindDuPont        Kind = "dupont"
	KindTrend         Kind = "trend"
	KindPeer          Kind = "peer"
)

// Kinds lists all analysis kinds in fixed order.
func Kinds() []Kind {
	return []Kind{
		KindProfitability, KindSolvency, KindEfficiency,
		KindCashFlow, KindDuPont, KindTrend, KindPeer,
	}
}

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown analysis kind %q", s)
}

// metricDef is one catalog entry: a named formula over the current period
// view (and the prior period, for averaged denominators). Catalog order is
// fixed so the same inputs always produce the same output order.
type metricDef struct {
	name string
	unit models.Unit
	eval func(cur, prev periodView) models.Amount
}

// Metric names. Shared between catalogs and the peer-comparison baselines.
const (
	MetricGrossMargin         = "gross_margin"
	MetricOperatingMargin     = "operating_margin"
	MetricNetMargin           = "net_margin"
	MetricROA                 = "roa"
	MetricROE                 = "roe"
	MetricAssetTurnover       = "asset_turnover"
	MetricEquityMultiplier    = "equity_multiplier"
	MetricDebtRatio           = "debt_ratio"
	MetricCurrentRatio        = "current_ratio"
	MetricQuickRatio          = "quick_ratio"
	MetricCashRatio           = "cash_ratio"
	MetricInventoryTurnover   = "inventory_turnover"
	MetricReceivablesTurnover = "receivables_turnover"
	MetricCashRealization     = "cash_realization"
)

var profitabilityCatalog = []metricDef{
	{MetricGrossMargin, models.UnitPercent, grossMargin},
	{MetricOperatingMargin, models.UnitPercent, operatingMargin},
	{MetricNetMargin, models.UnitPercent, netMargin},
	{MetricROA, models.UnitPercent, roa},
	{MetricROE, models.UnitPercent, roe},
}

// DuPont decomposition: ROE = net margin × asset turnover × equity
// multiplier. ROE leads so callers can render the identity beneath it.
var dupontCatalog = []metricDef{
	{MetricROE, models.UnitRatio, roe},
	{MetricNetMargin, models.UnitRatio, netMargin},
	{MetricAssetTurnover, models.UnitRatio, assetTurnover},
	{MetricEquityMultiplier, models.UnitRatio, equityMultiplier},
}

var solvencyCatalog = []metricDef{
	{MetricDebtRatio, models.UnitPercent, debtRatio},
	{MetricCurrentRatio, models.UnitRatio, currentRatio},
	{MetricQuickRatio, models.UnitRatio, quickRatio},
	{MetricCashRatio, models.UnitRatio, cashRatio},
}

var efficiencyCatalog = []metricDef{
	{MetricAssetTurnover, models.UnitRatio, assetTurnover},
	{MetricInventoryTurnover, models.UnitRatio, inventoryTurnover},
	{MetricReceivablesTurnover, models.UnitRatio, receivablesTurnover},
}

var cashFlowCatalog = []metricDef{
	{MetricCashRealization, models.UnitRatio, cashRealization},
}

// peerCatalog is the metric set compared against industry baselines,
// matching the baseline tables callers typically carry.
var peerCatalog = []metricDef{
	{MetricGrossMargin, models.UnitPercent, grossMargin},
	{MetricNetMargin, models.UnitPercent, netMargin},
	{MetricROA, models.UnitPercent, roa},
	{MetricROE, models.UnitPercent, roe},
	{MetricDebtRatio, models.UnitPercent, debtRatio},
	{MetricCurrentRatio, models.UnitRatio, currentRatio},
	{MetricQuickRatio, models.UnitRatio, quickRatio},
	{MetricAssetTurnover, models.UnitRatio, assetTurnover},
	{MetricReceivablesTurnover, models.UnitRatio, receivablesTurnover},
	{MetricInventoryTurnover, models.UnitRatio, inventoryTurnover},
}

// trendCatalog lists the line items tracked period-over-period.
var trendCatalog = []string{
	models.ItemRevenue,
	models.ItemNetProfit,
	models.ItemTotalAssets,
	models.ItemTotalEquity,
	models.ItemOperatingCashFlow,
}

var pointCatalogs = map[Kind][]metricDef{
	KindProfitability: profitabilityCatalog,
	KindSolvency:      solvencyCatalog,
	KindEfficiency:    efficiencyCatalog,
	KindCashFlow:      cashFlowCatalog,
	KindDuPont:        dupontCatalog,
}
