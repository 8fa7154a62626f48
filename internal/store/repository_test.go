package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junyangz/cninsight/pkg/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "statements.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func stmt(company string, t models.StatementType, year int, items map[string]float64) models.NormalizedStatement {
	return models.NormalizedStatement{
		Company: models.CompanyID(company),
		Type:    t,
		Period:  models.NewPeriod(year, time.December, 31),
		Items:   items,
	}
}

func TestUpsertAndQueryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := stmt("600519", models.BalanceSheet, 2023, map[string]float64{
		models.ItemTotalAssets: 2500e8,
		models.ItemTotalEquity: 2100e8,
	})
	require.NoError(t, repo.Upsert(ctx, in))

	got, err := repo.Query(ctx, "600519", models.BalanceSheet,
		models.ReportPeriod{}, models.ReportPeriod{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, in.Company, got[0].Company)
	assert.Equal(t, in.Type, got[0].Type)
	assert.True(t, in.Period.Equal(got[0].Period))
	assert.Equal(t, in.Items, got[0].Items)
}

func TestUpsertReplacesSameKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, stmt("600519", models.IncomeStatement, 2023,
		map[string]float64{models.ItemRevenue: 100})))
	// Re-download of the same period replaces, never duplicates.
	require.NoError(t, repo.Upsert(ctx, stmt("600519", models.IncomeStatement, 2023,
		map[string]float64{models.ItemRevenue: 150})))

	got, err := repo.Query(ctx, "600519", models.IncomeStatement,
		models.ReportPeriod{}, models.ReportPeriod{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 150.0, got[0].Items[models.ItemRevenue])
}

func TestQueryRangeAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, year := range []int{2023, 2020, 2022, 2021} {
		require.NoError(t, repo.Upsert(ctx, stmt("000001", models.BalanceSheet, year,
			map[string]float64{models.ItemTotalAssets: float64(year)})))
	}

	got, err := repo.Query(ctx, "000001", models.BalanceSheet,
		models.NewPeriod(2021, time.January, 1),
		models.NewPeriod(2022, time.December, 31))
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ascending by period.
	assert.Equal(t, "2021-12-31", got[0].Period.String())
	assert.Equal(t, "2022-12-31", got[1].Period.String())
}

func TestQueryOpenBounds(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, year := range []int{2021, 2022, 2023} {
		require.NoError(t, repo.Upsert(ctx, stmt("300750", models.CashFlowStatement, year, nil)))
	}

	all, err := repo.Query(ctx, "300750", models.CashFlowStatement,
		models.ReportPeriod{}, models.ReportPeriod{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fromOnly, err := repo.Query(ctx, "300750", models.CashFlowStatement,
		models.NewPeriod(2022, time.June, 30), models.ReportPeriod{})
	require.NoError(t, err)
	assert.Len(t, fromOnly, 2)
}

func TestQueryIsolatesCompanies(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, stmt("600519", models.BalanceSheet, 2023, nil)))
	require.NoError(t, repo.Upsert(ctx, stmt("000001", models.BalanceSheet, 2023, nil)))

	got, err := repo.Query(ctx, "600519", models.BalanceSheet,
		models.ReportPeriod{}, models.ReportPeriod{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.CompanyID("600519"), got[0].Company)
}

func TestListCompanies(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	companies, err := repo.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Empty(t, companies)

	require.NoError(t, repo.Upsert(ctx, stmt("600519", models.BalanceSheet, 2023, nil)))
	require.NoError(t, repo.Upsert(ctx, stmt("000001", models.IncomeStatement, 2023, nil)))
	require.NoError(t, repo.Upsert(ctx, stmt("600519", models.CashFlowStatement, 2023, nil)))

	companies, err = repo.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CompanyID{"000001", "600519"}, companies)
}

func TestReportDates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, stmt("688981", models.BalanceSheet, 2022, nil)))
	require.NoError(t, repo.Upsert(ctx, stmt("688981", models.IncomeStatement, 2023, nil)))
	// Same period in two tables collapses to one date.
	require.NoError(t, repo.Upsert(ctx, stmt("688981", models.CashFlowStatement, 2023, nil)))

	dates, err := repo.ReportDates(ctx, "688981")
	require.NoError(t, err)
	require.Len(t, dates, 2)
	// Newest first.
	assert.Equal(t, "2023-12-31", dates[0].String())
	assert.Equal(t, "2022-12-31", dates[1].String())
}
