// cninsight — financial statement downloads and ratio analysis for
// Chinese A-share listed companies.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junyangz/cninsight/api"
	"github.com/junyangz/cninsight/internal/analysis"
	"github.com/junyangz/cninsight/internal/config"
	"github.com/junyangz/cninsight/internal/normalize"
	"github.com/junyangz/cninsight/internal/service"
	"github.com/junyangz/cninsight/internal/source/sina"
	"github.com/junyangz/cninsight/internal/store"
	"github.com/junyangz/cninsight/pkg/logger"
	"github.com/junyangz/cninsight/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cninsight",
	Short: "cninsight — A-share financial statement downloads and ratio analysis",
	Long: `cninsight downloads balance sheets, income statements, and cash flow
statements for Chinese A-share listed companies, normalizes them into a
canonical line-item schema, and computes profitability, solvency,
efficiency, cash-flow, DuPont, trend, and peer-comparison metrics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(companiesCmd)
	rootCmd.AddCommand(serveCmd)
}

// newFacade wires the fetch/normalize/store/analyze pipeline from config.
// The returned closer owns the database handle.
func newFacade() (*service.Facade, func() error, error) {
	log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
	logger.SetGlobalLogger(log)

	repo, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open statement store: %w", err)
	}

	client := sina.New(sina.Options{
		BaseURL:        cfg.Source.BaseURL,
		ProfileBaseURL: cfg.Source.ProfileBaseURL,
		UserAgent:      cfg.Source.UserAgent,
		Timeout:        cfg.Source.Timeout,
		RateLimit:      cfg.Source.RateLimit,
		RateWindow:     cfg.Source.RateWindow,
		NameCacheTTL:   cfg.Source.NameCacheTTL,
		Logger:         log,
	})

	facade := service.New(client, client, normalize.New(log), repo, log)
	return facade, repo.Close, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cninsight %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Fetch Command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch [code]",
	Short: "Download all statements for a company",
	Long:  "Download balance sheet, income statement, and cash flow statement for a stock code and store them locally.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		facade, closer, err := newFacade()
		if err != nil {
			return err
		}
		defer closer() //nolint:errcheck

		code := models.CompanyID(args[0])
		report, err := facade.DownloadAll(cmd.Context(), code)
		if err != nil {
			return err
		}

		name := facade.CompanyName(cmd.Context(), code)
		fmt.Printf("%s (%s)\n", name, code)
		fmt.Printf("  statement types stored: %d/%d\n", report.Succeeded, len(models.StatementTypes()))
		fmt.Printf("  periods stored:         %d\n", report.Periods)
		if report.Skipped > 0 {
			fmt.Printf("  malformed records:      %d (skipped)\n", report.Skipped)
		}
		for _, f := range report.Failures {
			fmt.Printf("  FAILED %s: %s\n", f.Type, f.Msg)
		}
		if report.Succeeded == 0 {
			return fmt.Errorf("all statement types failed for %s", code)
		}
		return nil
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [code]",
	Short: "Compute financial ratios from stored statements",
	Long: `Compute a metric catalog over stored statements. Kinds:
` + strings.Join(kindNames(), ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		facade, closer, err := newFacade()
		if err != nil {
			return err
		}
		defer closer() //nolint:errcheck

		kindStr, _ := cmd.Flags().GetString("kind")
		kind, err := analysis.ParseKind(kindStr)
		if err != nil {
			return err
		}

		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		from, err := parsePeriodFlag(fromStr)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		to, err := parsePeriodFlag(toStr)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		var baselines analysis.Baselines
		if kind == analysis.KindPeer {
			baselines = analysis.DefaultBaselines()
		}

		code := models.CompanyID(args[0])
		results, err := facade.RunAnalysis(cmd.Context(), code, from, to, kind, baselines)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s) — %s\n", facade.CompanyName(cmd.Context(), code), code, kind)
		for _, res := range results {
			fmt.Printf("  %-22s %s  %s\n", res.Metric, res.Period, formatValue(res))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("kind", string(analysis.KindProfitability), "analysis kind")
	analyzeCmd.Flags().String("from", "", "earliest period end (YYYY-MM-DD)")
	analyzeCmd.Flags().String("to", "", "latest period end (YYYY-MM-DD)")
}

// --- Companies Command ---

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List companies with stored statements",
	RunE: func(cmd *cobra.Command, args []string) error {
		facade, closer, err := newFacade()
		if err != nil {
			return err
		}
		defer closer() //nolint:errcheck

		companies, err := facade.Companies(cmd.Context())
		if err != nil {
			return err
		}
		if len(companies) == 0 {
			fmt.Println("no statements stored yet; run `cninsight fetch <code>` first")
			return nil
		}
		for _, c := range companies {
			fmt.Println(c)
		}
		return nil
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		facade, closer, err := newFacade()
		if err != nil {
			return err
		}
		defer closer() //nolint:errcheck

		log := logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})
		srv := api.NewServer(cfg, facade, log)

		addr := cfg.API.Addr()
		fmt.Printf("listening on http://%s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Helpers ---

func kindNames() []string {
	kinds := analysis.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func parsePeriodFlag(s string) (models.ReportPeriod, error) {
	if s == "" {
		return models.ReportPeriod{}, nil
	}
	return models.ParsePeriod(s)
}

func formatValue(res models.RatioResult) string {
	if res.Value.IsNA() {
		return "N/A"
	}
	var out string
	switch res.Unit {
	case models.UnitPercent:
		out = fmt.Sprintf("%.2f%%", res.Value.Value*100)
	default:
		out = fmt.Sprintf("%.4f", res.Value.Value)
	}
	if res.Baseline != nil {
		out += fmt.Sprintf("  (baseline %.2f, %s)", res.Baseline.Baseline, res.Baseline.Position)
	}
	return out
}
