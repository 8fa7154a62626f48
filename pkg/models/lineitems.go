package models

// Canonical line-item names. These are the only keys a NormalizedStatement
// may carry; the normalizer maps source-native labels (including historical
// variants) onto this vocabulary.
const (
	// Balance sheet.
	ItemCash               = "cash"
	ItemReceivables        = "receivables"
	ItemInventory          = "inventory"
	ItemCurrentAssets      = "current_assets"
	ItemFixedAssets        = "fixed_assets"
	ItemNoncurrentAssets   = "noncurrent_assets"
	ItemTotalAssets        = "total_assets"
	ItemCurrentLiabilities = "current_liabilities"
	ItemTotalLiabilities   = "total_liabilities"
	ItemTotalEquity        = "total_equity"

	// Income statement.
	ItemRevenue         = "revenue"
	ItemCostOfRevenue   = "cost_of_revenue"
	ItemGrossProfit     = "gross_profit"
	ItemOperatingProfit = "operating_profit"
	ItemTotalProfit     = "total_profit"
	ItemNetProfit       = "net_profit"

	// Cash flow statement.
	ItemOperatingCashInflow  = "operating_cash_inflow"
	ItemOperatingCashOutflow = "operating_cash_outflow"
	ItemOperatingCashFlow    = "operating_cash_flow"
	ItemInvestingCashFlow    = "investing_cash_flow"
	ItemFinancingCashFlow    = "financing_cash_flow"
	ItemNetCashChange        = "net_cash_change"
)

// Vocabulary returns the canonical line-item set for a statement type,
// in disclosure order.
func Vocabulary(t StatementType) []string {
	switch t {
	case BalanceSheet:
		return []string{
			ItemCash, ItemReceivables, ItemInventory, ItemCurrentAssets,
			ItemFixedAssets, ItemNoncurrentAssets, ItemTotalAssets,
			ItemCurrentLiabilities, ItemTotalLiabilities, ItemTotalEquity,
		}
	case IncomeStatement:
		return []string{
			ItemRevenue, ItemCostOfRevenue, ItemGrossProfit,
			ItemOperatingProfit, ItemTotalProfit, ItemNetProfit,
		}
	case CashFlowStatement:
		return []string{
			ItemOperatingCashInflow, ItemOperatingCashOutflow,
			ItemOperatingCashFlow, ItemInvestingCashFlow,
			ItemFinancingCashFlow, ItemNetCashChange,
		}
	}
	return nil
}
