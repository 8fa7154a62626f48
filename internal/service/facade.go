// Package service wires the pipeline together: fetch → normalize → store
// for ingestion, and store → ratio engine for analysis. It is the only
// entry point the CLI and HTTP layers call into.
package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/junyangz/cninsight/internal/analysis"
	"github.com/junyangz/cninsight/internal/normalize"
	"github.com/junyangz/cninsight/internal/source"
	"github.com/junyangz/cninsight/pkg/models"
)

// StatementRepository is the persistence contract the facade depends on.
// Implementations must guarantee read-after-write for the same key.
type StatementRepository interface {
	Upsert(ctx context.Context, st models.NormalizedStatement) error
	Query(ctx context.Context, company models.CompanyID, t models.StatementType, from, to models.ReportPeriod) ([]models.NormalizedStatement, error)
	ListCompanies(ctx context.Context) ([]models.CompanyID, error)
	ReportDates(ctx context.Context, company models.CompanyID) ([]models.ReportPeriod, error)
}

// StatementFailure records one statement type that failed during a
// download; the other types are unaffected.
type StatementFailure struct {
	Type models.StatementType `json:"type"`
	Err  error                `json:"-"`
	Msg  string               `json:"error"`
}

// DownloadReport summarizes a DownloadAll run. Partial success is a
// report, not an error.
type DownloadReport struct {
	Company   models.CompanyID     `json:"company"`
	Succeeded int                  `json:"succeeded"` // statement types stored
	Periods   int                  `json:"periods"`   // statements upserted
	Skipped   int                  `json:"skipped"`   // records with malformed periods
	Failures  []StatementFailure   `json:"failures,omitempty"`
}

// Facade orchestrates ingestion and analysis.
type Facade struct {
	fetcher source.Fetcher
	profile source.ProfileFetcher
	norm    *normalize.Normalizer
	repo    StatementRepository
	log     zerolog.Logger

	// Per-company write locks: writes for one company are serialized
	// against reads for that company; companies never contend.
	mu    sync.Mutex
	locks map[models.CompanyID]*sync.Mutex
}

// New creates a facade. profile may be nil when the source has no profile
// surface; CompanyName then degrades to the bare code.
func New(fetcher source.Fetcher, profile source.ProfileFetcher, norm *normalize.Normalizer, repo StatementRepository, log zerolog.Logger) *Facade {
	return &Facade{
		fetcher: fetcher,
		profile: profile,
		norm:    norm,
		repo:    repo,
		log:     log,
		locks:   make(map[models.CompanyID]*sync.Mutex),
	}
}

func (f *Facade) companyLock(company models.CompanyID) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[company]
	if !ok {
		l = &sync.Mutex{}
		f.locks[company] = l
	}
	return l
}

// DownloadAll fetches, normalizes, and stores all three statement types
// for a company. The three fetches run concurrently; a failure in one
// statement type never aborts the others. Records with malformed periods
// are skipped and counted, not fatal. Only a malformed company code is a
// hard failure.
func (f *Facade) DownloadAll(ctx context.Context, company models.CompanyID) (*DownloadReport, error) {
	if err := source.ValidateCode(company); err != nil {
		return nil, err
	}

	report := &DownloadReport{Company: company}
	var mu sync.Mutex
	lock := f.companyLock(company)

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range models.StatementTypes() {
		t := t
		g.Go(func() error {
			stored, skipped, err := f.downloadOne(gctx, company, t, lock)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, StatementFailure{
					Type: t, Err: err, Msg: err.Error(),
				})
				return nil // isolated: never cancels the sibling fetches
			}
			report.Succeeded++
			report.Periods += stored
			report.Skipped += skipped
			return nil
		})
	}
	g.Wait()

	// Deterministic failure order for rendering and comparison.
	orderFailures(report.Failures)

	f.log.Info().
		Str("company", string(company)).
		Int("succeeded", report.Succeeded).
		Int("periods", report.Periods).
		Int("failures", len(report.Failures)).
		Msg("download complete")

	return report, nil
}

// downloadOne runs the fetch → normalize → upsert pipeline for a single
// statement type. Upserts for the company are serialized under its lock;
// each upsert is all-or-nothing per statement/period.
func (f *Facade) downloadOne(ctx context.Context, company models.CompanyID, t models.StatementType, lock *sync.Mutex) (stored, skipped int, err error) {
	raws, err := f.fetcher.Fetch(ctx, company, t)
	if err != nil {
		return 0, 0, err
	}

	statements := make([]models.NormalizedStatement, 0, len(raws))
	for _, raw := range raws {
		st, err := f.norm.Normalize(raw, company, t)
		if err != nil {
			// Malformed period: skip the record, keep the batch.
			f.log.Warn().
				Str("company", string(company)).
				Str("type", string(t)).
				Err(err).
				Msg("skipping malformed record")
			skipped++
			continue
		}
		statements = append(statements, st)
	}

	lock.Lock()
	defer lock.Unlock()
	for _, st := range statements {
		if err := f.repo.Upsert(ctx, st); err != nil {
			return stored, skipped, err
		}
		stored++
	}
	return stored, skipped, nil
}

func orderFailures(failures []StatementFailure) {
	order := map[models.StatementType]int{}
	for i, t := range models.StatementTypes() {
		order[t] = i
	}
	for i := 1; i < len(failures); i++ {
		for j := i; j > 0 && order[failures[j].Type] < order[failures[j-1].Type]; j-- {
			failures[j], failures[j-1] = failures[j-1], failures[j]
		}
	}
}

// RunAnalysis reads the stored statements for a company in [from, to]
// (zero bounds are open) and computes the requested metric catalog.
// Fails with InsufficientData when no periods match.
func (f *Facade) RunAnalysis(ctx context.Context, company models.CompanyID, from, to models.ReportPeriod, kind analysis.Kind, baselines analysis.Baselines) ([]models.RatioResult, error) {
	if err := source.ValidateCode(company); err != nil {
		return nil, err
	}

	lock := f.companyLock(company)
	lock.Lock()
	var stmts []models.NormalizedStatement
	for _, t := range models.StatementTypes() {
		batch, err := f.repo.Query(ctx, company, t, from, to)
		if err != nil {
			lock.Unlock()
			return nil, err
		}
		stmts = append(stmts, batch...)
	}
	lock.Unlock()

	if len(stmts) == 0 {
		return nil, &source.InsufficientDataError{Company: company}
	}
	return analysis.Analyze(stmts, kind, baselines)
}

// Companies lists every company with stored statements.
func (f *Facade) Companies(ctx context.Context) ([]models.CompanyID, error) {
	return f.repo.ListCompanies(ctx)
}

// Periods lists the stored report periods for a company, newest first.
func (f *Facade) Periods(ctx context.Context, company models.CompanyID) ([]models.ReportPeriod, error) {
	if err := source.ValidateCode(company); err != nil {
		return nil, err
	}
	return f.repo.ReportDates(ctx, company)
}

// CompanyName resolves a display name via the source profile page.
// Lookup failures degrade to the bare code; the name is cosmetic.
func (f *Facade) CompanyName(ctx context.Context, company models.CompanyID) string {
	if f.profile == nil {
		return string(company)
	}
	name, err := f.profile.CompanyName(ctx, company)
	if err != nil {
		f.log.Debug().Str("company", string(company)).Err(err).Msg("name lookup failed")
		return string(company)
	}
	return name
}
