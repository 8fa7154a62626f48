// Package store persists normalized statements in SQLite using the pure Go
// modernc.org/sqlite driver. One logical table per statement type, rows
// keyed by (company code, period-end date); line items are stored as a
// JSON document since the engine joins statements in memory, not in SQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/junyangz/cninsight/pkg/models"
)

// tableFor maps statement types to their table names. Statement type
// values are fixed identifiers, never user input.
func tableFor(t models.StatementType) string { return string(t) }

const schemaTemplate = `CREATE TABLE IF NOT EXISTS %s (
	company     TEXT NOT NULL,
	period_end  TEXT NOT NULL,
	items       TEXT NOT NULL,
	inserted_at TEXT NOT NULL,
	PRIMARY KEY (company, period_end)
)`

// Repository is a SQLite-backed statement repository.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the statement database at path and
// ensures the schema exists. WAL mode keeps concurrent readers cheap.
func Open(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, t := range models.StatementTypes() {
		if _, err := db.Exec(fmt.Sprintf(schemaTemplate, tableFor(t))); err != nil {
			db.Close()
			return nil, fmt.Errorf("create table %s: %w", tableFor(t), err)
		}
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error { return r.db.Close() }

// Upsert stores a statement, replacing any prior record for the same
// (company, type, period). The write is a single INSERT OR REPLACE, so a
// failed fetch never leaves a partial row; a read immediately after
// returns the written value.
func (r *Repository) Upsert(ctx context.Context, st models.NormalizedStatement) error {
	items, err := json.Marshal(st.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (company, period_end, items, inserted_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (company, period_end) DO UPDATE SET
			items = excluded.items,
			inserted_at = excluded.inserted_at`, tableFor(st.Type))

	_, err = r.db.ExecContext(ctx, query,
		string(st.Company), st.Period.String(), string(items),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", st.Key(), err)
	}
	return nil
}

// Query returns all stored statements of one type for a company within
// [from, to], ordered by period ascending. Zero bounds are open.
func (r *Repository) Query(ctx context.Context, company models.CompanyID, t models.StatementType, from, to models.ReportPeriod) ([]models.NormalizedStatement, error) {
	query := fmt.Sprintf(`SELECT period_end, items FROM %s WHERE company = ?`, tableFor(t))
	args := []any{string(company)}
	if !from.IsZero() {
		query += ` AND period_end >= ?`
		args = append(args, from.String())
	}
	if !to.IsZero() {
		query += ` AND period_end <= ?`
		args = append(args, to.String())
	}
	query += ` ORDER BY period_end ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s for %s: %w", t, company, err)
	}
	defer rows.Close()

	var result []models.NormalizedStatement
	for rows.Next() {
		var periodEnd, itemsJSON string
		if err := rows.Scan(&periodEnd, &itemsJSON); err != nil {
			return nil, err
		}
		end, err := time.ParseInLocation("2006-01-02", periodEnd, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("corrupt period_end %q: %w", periodEnd, err)
		}
		items := make(map[string]float64)
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return nil, fmt.Errorf("corrupt items for %s/%s: %w", company, periodEnd, err)
		}
		result = append(result, models.NormalizedStatement{
			Company: company,
			Type:    t,
			Period:  models.ReportPeriod{End: end},
			Items:   items,
		})
	}
	return result, rows.Err()
}

// ListCompanies returns every company with at least one stored statement
// of any type, sorted by code.
func (r *Repository) ListCompanies(ctx context.Context) ([]models.CompanyID, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT company FROM (
			SELECT company FROM %s
			UNION SELECT company FROM %s
			UNION SELECT company FROM %s
		) ORDER BY company`,
		tableFor(models.BalanceSheet),
		tableFor(models.IncomeStatement),
		tableFor(models.CashFlowStatement))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []models.CompanyID
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		companies = append(companies, models.CompanyID(code))
	}
	return companies, rows.Err()
}

// ReportDates returns the distinct period-end dates stored for a company
// across all statement types, newest first.
func (r *Repository) ReportDates(ctx context.Context, company models.CompanyID) ([]models.ReportPeriod, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT period_end FROM (
			SELECT period_end FROM %s WHERE company = ?
			UNION SELECT period_end FROM %s WHERE company = ?
			UNION SELECT period_end FROM %s WHERE company = ?
		) ORDER BY period_end DESC`,
		tableFor(models.BalanceSheet),
		tableFor(models.IncomeStatement),
		tableFor(models.CashFlowStatement))

	rows, err := r.db.QueryContext(ctx, query,
		string(company), string(company), string(company))
	if err != nil {
		return nil, fmt.Errorf("report dates for %s: %w", company, err)
	}
	defer rows.Close()

	var periods []models.ReportPeriod
	for rows.Next() {
		var periodEnd string
		if err := rows.Scan(&periodEnd); err != nil {
			return nil, err
		}
		end, err := time.ParseInLocation("2006-01-02", periodEnd, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("corrupt period_end %q: %w", periodEnd, err)
		}
		periods = append(periods, models.ReportPeriod{End: end})
	}
	return periods, rows.Err()
}
