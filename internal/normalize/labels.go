package normalize

import "github.com/junyangz/cninsight/pkg/models"

// labelTable maps source-native labels to the canonical vocabulary, one
// table per statement type. Sina has renamed report lines across years, so
// every known historical variant maps to the same canonical item. New
// variants are added here as rows, never as parsing branches.
//
// Labels are matched after cleanLabel strips whitespace, leading section
// numerals ("一、", "减："), and trailing unit parentheticals ("(万元)").
var labelTable = map[models.StatementType]map[string]string{
	models.BalanceSheet: {
		"货币资金": models.ItemCash,

		"应收账款": models.ItemReceivables,

		"存货": models.ItemInventory,

		"流动资产合计": models.ItemCurrentAssets,
		"流动资产总计": models.ItemCurrentAssets,

		"固定资产":   models.ItemFixedAssets,
		"固定资产净额": models.ItemFixedAssets,
		"固定资产净值": models.ItemFixedAssets,

		"非流动资产合计": models.ItemNoncurrentAssets,
		"长期资产合计":  models.ItemNoncurrentAssets,

		"资产总计": models.ItemTotalAssets,
		"资产合计": models.ItemTotalAssets,
		"总资产":  models.ItemTotalAssets,

		"流动负债合计": models.ItemCurrentLiabilities,

		"负债合计": models.ItemTotalLiabilities,
		"总负债":  models.ItemTotalLiabilities,

		"所有者权益合计":          models.ItemTotalEquity,
		"所有者权益(或股东权益)合计":   models.ItemTotalEquity,
		"股东权益合计":           models.ItemTotalEquity,
		"归属于母公司股东权益合计":     models.ItemTotalEquity,
		"所有者权益(或股东权益)总计":   models.ItemTotalEquity,
	},
	models.IncomeStatement: {
		"营业收入":  models.ItemRevenue,
		"营业总收入": models.ItemRevenue,
		"主营业务收入": models.ItemRevenue,

		"营业成本":   models.ItemCostOfRevenue,
		"主营业务成本": models.ItemCostOfRevenue,

		"毛利润": models.ItemGrossProfit,
		"毛利":  models.ItemGrossProfit,

		"营业利润": models.ItemOperatingProfit,

		"利润总额": models.ItemTotalProfit,

		"净利润":          models.ItemNetProfit,
		"归属于母公司所有者的净利润": models.ItemNetProfit,
	},
	models.CashFlowStatement: {
		"经营活动现金流入小计": models.ItemOperatingCashInflow,

		"经营活动现金流出小计": models.ItemOperatingCashOutflow,

		"经营活动产生的现金流量净额": models.ItemOperatingCashFlow,
		"经营活动现金流量净额":    models.ItemOperatingCashFlow,

		"投资活动产生的现金流量净额": models.ItemInvestingCashFlow,
		"投资活动现金流量净额":    models.ItemInvestingCashFlow,

		"筹资活动产生的现金流量净额": models.ItemFinancingCashFlow,
		"筹资活动现金流量净额":    models.ItemFinancingCashFlow,

		"现金及现金等价物净增加额": models.ItemNetCashChange,
		"现金及现金等价物的净增加额": models.ItemNetCashChange,
	},
}
