package sina

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/junyangz/cninsight/internal/source"
	"github.com/junyangz/cninsight/pkg/models"
)

// reportPath maps statement types to Sina's download report names.
var reportPath = map[models.StatementType]string{
	models.BalanceSheet:      "BalanceSheet",
	models.IncomeStatement:   "ProfitStatement",
	models.CashFlowStatement: "CashFlow",
}

// Fetch downloads the full statement history for one statement type and
// transposes it into per-period raw records, most recent first.
func (c *Client) Fetch(ctx context.Context, company models.CompanyID, t models.StatementType) ([]source.RawPeriodRecord, error) {
	if err := source.ValidateCode(company); err != nil {
		return nil, err
	}
	path, ok := reportPath[t]
	if !ok {
		return nil, fmt.Errorf("unknown statement type %q", t)
	}
	op := fmt.Sprintf("sina %s %s", t, company)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &source.SourceUnavailableError{Op: op, Err: err}
	}

	url := fmt.Sprintf("%s/corp/go.php/vDOWN_%s/displaytype/4/stockid/%s/ctrl/all.phtml",
		c.base, path, company)

	body, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, &source.SourceUnavailableError{Op: op, Err: err}
	}
	defer body.Close()

	// Sina serves the download in GBK.
	decoded, err := io.ReadAll(transform.NewReader(body, simplifiedchinese.GBK.NewDecoder()))
	if err != nil {
		return nil, &source.SourceUnavailableError{Op: op, Err: err}
	}

	records, err := parseReport(string(decoded))
	if err != nil {
		return nil, &source.SourceUnavailableError{Op: op, Err: err}
	}

	c.log.Debug().
		Str("company", string(company)).
		Str("type", string(t)).
		Int("periods", len(records)).
		Msg("fetched statement report")

	return records, nil
}

// parseReport transposes Sina's tab-separated report layout into one raw
// record per period column. The first line carries the period-end dates
// (yyyymmdd); following lines carry one source-native label per row.
//
// An empty body means the source discloses no report of this type for the
// company: that is an empty result, not an error. A body that is not
// tab-separated report text (e.g. an HTML error page) is a source fault.
func parseReport(text string) ([]source.RawPeriodRecord, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil, nil
	}
	if strings.HasPrefix(text, "<") {
		return nil, fmt.Errorf("unexpected page structure: got HTML, want report")
	}

	lines := strings.Split(text, "\n")
	header := strings.Split(lines[0], "\t")

	// Period columns are the header cells that parse as yyyymmdd dates.
	// Trailing columns like 单位 are skipped naturally.
	var periodCols []int
	for j := 1; j < len(header); j++ {
		if _, err := time.Parse("20060102", strings.TrimSpace(header[j])); err == nil {
			periodCols = append(periodCols, j)
		}
	}
	if len(periodCols) == 0 {
		if len(lines) == 1 {
			return nil, nil // header-only download, nothing disclosed
		}
		return nil, fmt.Errorf("unexpected page structure: no period columns")
	}

	records := make([]source.RawPeriodRecord, len(periodCols))
	for i, j := range periodCols {
		records[i] = source.RawPeriodRecord{
			source.PeriodDateLabel: strings.TrimSpace(header[j]),
		}
	}

	for _, line := range lines[1:] {
		row := strings.Split(line, "\t")
		label := strings.TrimSpace(row[0])
		if label == "" || label == "单位" {
			continue
		}
		for i, j := range periodCols {
			if j >= len(row) {
				continue
			}
			if val := strings.TrimSpace(row[j]); val != "" {
				records[i][label] = val
			}
		}
	}

	return records, nil
}
