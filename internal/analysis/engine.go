// Package analysis derives financial metrics from normalized statements:
// profitability, solvency, operating efficiency, cash-flow quality, DuPont
// decomposition, period-over-period trends, and peer comparison against
// caller-supplied industry baselines.
//
// The engine is pure and stateless: it joins the statements it is given in
// memory and never touches storage, so it is safe to call concurrently.
// A ratio whose denominator is zero or whose operand is undisclosed is
// reported as NA — it still appears in the result sequence, in catalog
// order, so renderers can show "N/A" deterministically.
package analysis

import (
	"errors"
	"math"
	"sort"

	"github.com/junyangz/cninsight/pkg/models"
)

// Baselines maps metric names to industry-average values for peer
// comparison. The source of the averages is the caller's concern.
type Baselines map[string]float64

// Analyze computes the metric catalog for kind over the given statements,
// which may mix statement types and periods in any order. Baselines are
// only consulted for KindPeer and may be nil otherwise.
func Analyze(stmts []models.NormalizedStatement, kind Kind, baselines Baselines) ([]models.RatioResult, error) {
	views := buildViews(stmts)
	if len(views) == 0 {
		return nil, errors.New("analyze: no statements")
	}

	switch kind {
	case KindTrend:
		return analyzeTrend(views), nil
	case KindPeer:
		return analyzePeer(views, baselines), nil
	default:
		catalog, ok := pointCatalogs[kind]
		if !ok {
			return nil, errors.New("analyze: unknown kind " + string(kind))
		}
		return analyzePoint(views, catalog), nil
	}
}

// periodView is the in-memory join of all statement types for one period.
type periodView struct {
	period models.ReportPeriod
	items  map[string]float64
}

func (v periodView) get(name string) models.Amount {
	if val, ok := v.items[name]; ok {
		return models.Of(val)
	}
	return models.NA()
}

// buildViews merges statements into one view per period, ascending.
func buildViews(stmts []models.NormalizedStatement) []periodView {
	byPeriod := make(map[string]*periodView)
	for _, st := range stmts {
		key := st.Period.String()
		v, ok := byPeriod[key]
		if !ok {
			v = &periodView{period: st.Period, items: make(map[string]float64)}
			byPeriod[key] = v
		}
		for name, val := range st.Items {
			v.items[name] = val
		}
	}

	views := make([]periodView, 0, len(byPeriod))
	for _, v := range byPeriod {
		views = append(views, *v)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].period.Before(views[j].period)
	})
	return views
}

// analyzePoint evaluates a catalog against the most recent period, with
// the prior period available for averaged denominators.
func analyzePoint(views []periodView, catalog []metricDef) []models.RatioResult {
	cur := views[len(views)-1]
	var prev periodView
	if len(views) >= 2 {
		prev = views[len(views)-2]
	}

	results := make([]models.RatioResult, 0, len(catalog))
	for _, def := range catalog {
		results = append(results, models.RatioResult{
			Metric: def.name,
			Period: cur.period,
			Value:  def.eval(cur, prev),
			Unit:   def.unit,
		})
	}
	return results
}

// analyzeTrend reports period-over-period change for each tracked item.
// The first period of every item is NA by definition, as is any change
// over a zero prior value.
func analyzeTrend(views []periodView) []models.RatioResult {
	var results []models.RatioResult
	for _, item := range trendCatalog {
		for i, v := range views {
			change := models.NA()
			if i > 0 {
				change = v.get(item).PctChange(views[i-1].get(item))
			}
			results = append(results, models.RatioResult{
				Metric: item,
				Period: v.period,
				Value:  change,
				Unit:   models.UnitPercent,
			})
		}
	}
	return results
}

// analyzePeer evaluates the peer catalog for the latest period and, where
// a baseline is supplied, attaches the delta and the relative position.
func analyzePeer(views []periodView, baselines Baselines) []models.RatioResult {
	results := analyzePoint(views, peerCatalog)
	for i := range results {
		baseline, ok := baselines[results[i].Metric]
		if !ok {
			continue
		}
		results[i].Baseline = compareBaseline(results[i].Value, baseline)
	}
	return results
}

// compareBaseline classifies a value against an industry average: within
// ±20% of the baseline counts as "near".
func compareBaseline(value models.Amount, baseline float64) *models.BaselineComparison {
	cmp := &models.BaselineComparison{Baseline: baseline, Delta: models.NA(), Position: "unknown"}
	if value.IsNA() {
		return cmp
	}
	delta := value.Value - baseline
	cmp.Delta = models.Of(delta)
	band := math.Abs(baseline) * 0.2
	switch {
	case delta > band:
		cmp.Position = "above"
	case delta < -band:
		cmp.Position = "below"
	default:
		cmp.Position = "near"
	}
	return cmp
}

// --- metric formulas ---

func grossMargin(cur, _ periodView) models.Amount {
	revenue := cur.get(models.ItemRevenue)
	gross := cur.get(models.ItemGrossProfit)
	if gross.IsNA() {
		gross = revenue.Sub(cur.get(models.ItemCostOfRevenue))
	}
	return gross.Div(revenue)
}

func operatingMargin(cur, _ periodView) models.Amount {
	return cur.get(models.ItemOperatingProfit).Div(cur.get(models.ItemRevenue))
}

func netMargin(cur, _ periodView) models.Amount {
	return cur.get(models.ItemNetProfit).Div(cur.get(models.ItemRevenue))
}

func roa(cur, _ periodView) models.Amount {
	return cur.get(models.ItemNetProfit).Div(cur.get(models.ItemTotalAssets))
}

func roe(cur, _ periodView) models.Amount {
	return cur.get(models.ItemNetProfit).Div(cur.get(models.ItemTotalEquity))
}

func assetTurnover(cur, _ periodView) models.Amount {
	return cur.get(models.ItemRevenue).Div(cur.get(models.ItemTotalAssets))
}

func equityMultiplier(cur, _ periodView) models.Amount {
	return cur.get(models.ItemTotalAssets).Div(cur.get(models.ItemTotalEquity))
}

func debtRatio(cur, _ periodView) models.Amount {
	return cur.get(models.ItemTotalLiabilities).Div(cur.get(models.ItemTotalAssets))
}

func currentRatio(cur, _ periodView) models.Amount {
	return cur.get(models.ItemCurrentAssets).Div(cur.get(models.ItemCurrentLiabilities))
}

func quickRatio(cur, _ periodView) models.Amount {
	quick := cur.get(models.ItemCurrentAssets).Sub(cur.get(models.ItemInventory))
	return quick.Div(cur.get(models.ItemCurrentLiabilities))
}

func cashRatio(cur, _ periodView) models.Amount {
	return cur.get(models.ItemCash).Div(cur.get(models.ItemCurrentLiabilities))
}

func inventoryTurnover(cur, prev periodView) models.Amount {
	return cur.get(models.ItemCostOfRevenue).Div(averaged(cur, prev, models.ItemInventory))
}

func receivablesTurnover(cur, prev periodView) models.Amount {
	return cur.get(models.ItemRevenue).Div(averaged(cur, prev, models.ItemReceivables))
}

func cashRealization(cur, _ periodView) models.Amount {
	return cur.get(models.ItemOperatingCashFlow).Div(cur.get(models.ItemNetProfit))
}

// averaged returns the average of the current and prior period values when
// both are disclosed, else the current-period value alone.
func averaged(cur, prev periodView, item string) models.Amount {
	c := cur.get(item)
	p := prev.get(item)
	if c.IsNA() || p.IsNA() {
		return c
	}
	return models.Of((c.Value + p.Value) / 2)
}

// dupontTolerance is the relative tolerance for the DuPont identity
// ROE = net margin × asset turnover × equity multiplier.
const dupontTolerance = 1e-6

// dupontConsistent verifies the DuPont identity for a period view. It is
// an internal sanity check, exercised by tests as an oracle; callers never
// see it.
func dupontConsistent(v periodView) bool {
	product := netMargin(v, periodView{}).
		Mul(assetTurnover(v, periodView{})).
		Mul(equityMultiplier(v, periodView{}))
	actual := roe(v, periodView{})
	if product.IsNA() || actual.IsNA() {
		return true // identity is vacuous when any factor is undisclosed
	}
	if actual.Value == 0 {
		return product.Value == 0
	}
	return math.Abs(product.Value-actual.Value) <= dupontTolerance*math.Abs(actual.Value)
}
