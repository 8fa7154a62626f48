// Package normalize maps raw source records onto the canonical statement
// schema. It owns the label mapping table, numeric coercion, and period
// derivation. Normalization is deterministic and idempotent: the same raw
// record always yields an identical NormalizedStatement.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/junyangz/cninsight/internal/source"
	"github.com/junyangz/cninsight/pkg/models"
)

// periodLayouts are the date formats the source has used for period-end
// dates, newest first.
var periodLayouts = []string{"20060102", "2006-01-02"}

// Normalizer converts RawPeriodRecords into NormalizedStatements.
type Normalizer struct {
	log zerolog.Logger
}

// New creates a normalizer. Dropped unknown labels are logged at debug
// level on the given logger; dropping is never fatal.
func New(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize maps one raw period record onto the canonical vocabulary for
// the statement type. Unmapped labels are dropped (logged, non-fatal);
// unparsable values become absent items, never zero. A missing or
// unparsable period date fails the whole record with MalformedPeriodError.
func (n *Normalizer) Normalize(raw source.RawPeriodRecord, company models.CompanyID, t models.StatementType) (models.NormalizedStatement, error) {
	period, err := parsePeriod(raw[source.PeriodDateLabel])
	if err != nil {
		return models.NormalizedStatement{}, err
	}

	table := labelTable[t]
	items := make(map[string]float64)
	for label, value := range raw {
		if label == source.PeriodDateLabel {
			continue
		}
		canonical, ok := table[cleanLabel(label)]
		if !ok {
			n.log.Debug().
				Str("company", string(company)).
				Str("type", string(t)).
				Str("label", label).
				Msg("dropping unmapped source label")
			continue
		}
		v, ok := coerceNumber(value)
		if !ok {
			// Unknown stays unknown: absent key, not zero.
			continue
		}
		items[canonical] = v
	}

	return models.NormalizedStatement{
		Company: company,
		Type:    t,
		Period:  period,
		Items:   items,
	}, nil
}

// parsePeriod derives the period-end date from the raw record value.
func parsePeriod(raw string) (models.ReportPeriod, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.ReportPeriod{}, &source.MalformedPeriodError{Raw: raw}
	}
	for _, layout := range periodLayouts {
		if end, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return models.ReportPeriod{End: end}, nil
		}
	}
	return models.ReportPeriod{}, &source.MalformedPeriodError{Raw: raw}
}

// sectionPrefixes are the numbering and operator prefixes Sina prepends
// to report lines, e.g. "一、营业总收入" or "减：营业成本".
var sectionPrefixes = []string{
	"一、", "二、", "三、", "四、", "五、", "六、", "七、",
	"减：", "加：", "其中：", "减:", "加:", "其中:",
}

// cleanLabel strips decoration that varies across report vintages so the
// mapping table only needs the bare label.
func cleanLabel(label string) string {
	s := strings.TrimSpace(label)
	for _, p := range sectionPrefixes {
		s = strings.TrimPrefix(s, p)
	}
	// Trailing unit parenthetical, e.g. "货币资金(万元)". Parentheticals
	// that are part of the label, like 所有者权益(或股东权益)合计, carry no
	// unit character and are left intact.
	for _, open := range []string{"(", "（"} {
		if i := strings.Index(s, open); i > 0 && strings.Contains(s[i:], "元") {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// unitSuffixes maps Chinese magnitude suffixes to multipliers.
var unitSuffixes = []struct {
	suffix string
	factor float64
}{
	{"亿元", 1e8},
	{"亿", 1e8},
	{"万元", 1e4},
	{"万", 1e4},
	{"元", 1},
}

// naTokens are source spellings of "not disclosed".
var naTokens = map[string]bool{"": true, "--": true, "—": true, "-": true, "N/A": true, "n/a": true}

// coerceNumber parses a source-native cell into a float64. It strips
// thousands separators and magnitude suffixes. Returns false for values
// that cannot be parsed; the caller records them as "not available".
func coerceNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if naTokens[s] {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	factor := 1.0
	for _, u := range unitSuffixes {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSuffix(s, u.suffix)
			factor = u.factor
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * factor, true
}
