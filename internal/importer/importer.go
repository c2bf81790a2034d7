package importer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/assessment"
)

// Mode selects whether imported records are scored.
type Mode string

const (
	ModeNormalize Mode = "normalize"
	ModeCalculate Mode = "calculate"
)

// ParseMode accepts "", "normalize" and "calculate".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNormalize:
		return ModeNormalize, nil
	case ModeCalculate:
		return ModeCalculate, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// SheetFetcher downloads spreadsheet bytes from a URL.
type SheetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Result is the outcome of one batch import.
type Result struct {
	Records    []assessment.PatientAssessment `json:"data"`
	Discovery  assessment.Discovery           `json:"discovery"`
	Diagnostic string                         `json:"diagnostic,omitempty"`
	RowsRead   int                            `json:"-"`
}

// Importer runs the spreadsheet pipeline: read, normalize, optionally score.
type Importer struct {
	fetcher SheetFetcher
	logger  *zap.Logger
}

func New(fetcher SheetFetcher, logger *zap.Logger) *Importer {
	return &Importer{fetcher: fetcher, logger: logger}
}

// ProcessURL downloads the spreadsheet at url and processes it.
func (im *Importer) ProcessURL(ctx context.Context, url string, mode Mode) (*Result, error) {
	data, err := im.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return im.Process(data, mode)
}

// Process parses data and normalizes every row. It only fails when the bytes
// cannot be read as a spreadsheet at all.
func (im *Importer) Process(data []byte, mode Mode) (*Result, error) {
	rows, err := ReadSheet(data)
	if err != nil {
		return nil, err
	}
	res := ProcessRows(rows, mode)

	im.logger.Info("spreadsheet processed",
		zap.String("mode", string(mode)),
		zap.Int("rows", res.RowsRead),
		zap.Int("records", len(res.Records)),
		zap.Strings("missing_fields", res.Discovery.Missing()),
	)
	return res, nil
}

// ProcessRows normalizes rows in order, dropping blank ones.
func ProcessRows(rows []assessment.Row, mode Mode) *Result {
	var n assessment.Normalizer
	res := &Result{
		Records:  make([]assessment.PatientAssessment, 0, len(rows)),
		RowsRead: len(rows),
	}
	for i, row := range rows {
		rec, ok := n.Normalize(row, i)
		if !ok {
			continue
		}
		if mode == ModeCalculate {
			assessment.Calculate(rec)
		}
		res.Records = append(res.Records, *rec)
	}
	res.Discovery = n.Discovery

	if len(res.Records) == 0 {
		res.Diagnostic = diagnose(rows)
	}
	return res
}

func diagnose(rows []assessment.Row) string {
	if len(rows) == 0 {
		return "The spreadsheet has no data rows. Check that the first sheet has a header row followed by one row per patient."
	}
	headers := rows[0].Headers()
	if _, ok := assessment.Resolve(rows[0], assessment.Aliases(assessment.FieldName)); !ok {
		return fmt.Sprintf("Read %d rows but found no recognizable name column. Headers seen: %s.",
			len(rows), strings.Join(headers, ", "))
	}
	return fmt.Sprintf("Read %d rows but every row was empty.", len(rows))
}
