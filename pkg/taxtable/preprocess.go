package taxtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/iwvelando/frilans-calc/pkg/constants"
	"go.uber.org/zap"
)

var yearPattern = regexp.MustCompile(`(\d{4})`)

// Row is one raw line of a Skatteverket tax table export.
type Row struct {
	Year       string
	Type       string
	TableNr    string
	SalaryFrom string
	SalaryTo   string
	Tax        string
}

// Processor converts raw semicolon-delimited tax table exports into brackets.
type Processor struct {
	logger    *zap.Logger
	TableNr   string
	Threshold float64
}

// NewProcessor creates a processor for the default table.
func NewProcessor(logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		logger:    logger,
		TableNr:   constants.DefaultTaxTableNumber,
		Threshold: constants.SalaryPercentageLimit,
	}
}

// Process parses r and returns the sorted, merged brackets.
func (p *Processor) Process(r io.Reader) ([]Bracket, error) {
	raw, err := p.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	merged := MergeConsecutivePercentages(raw, p.Threshold)
	p.logger.Info("processed tax table",
		zap.String("op", "taxtable.Process"),
		zap.String("table", p.TableNr),
		zap.Int("brackets", len(raw)),
		zap.Int("merged", len(merged)),
	)
	return merged, nil
}

// ParseCSV reads rows of year;type;tableNr;salaryFrom;salaryTo;tax, keeps
// the configured table and the rows whose numeric fields parse, and sorts
// them by SalaryFrom.
func (p *Processor) ParseCSV(r io.Reader) ([]Bracket, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var brackets []Bracket
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tax table: %w", err)
		}

		row, ok := parseRow(record)
		if !ok || row.TableNr != p.TableNr {
			continue
		}

		bracket, ok := row.bracket()
		if !ok {
			skipped++
			continue
		}
		brackets = append(brackets, bracket)
	}

	if skipped > 0 {
		p.logger.Debug(fmt.Sprintf("skipped %d rows with invalid numbers in table %s", skipped, p.TableNr),
			zap.String("op", "taxtable.ParseCSV"),
		)
	}

	sort.SliceStable(brackets, func(i, j int) bool {
		return brackets[i].SalaryFrom < brackets[j].SalaryFrom
	})
	return brackets, nil
}

func parseRow(record []string) (Row, bool) {
	if len(record) < 6 {
		return Row{}, false
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	return Row{
		Year:       record[0],
		Type:       record[1],
		TableNr:    record[2],
		SalaryFrom: record[3],
		SalaryTo:   record[4],
		Tax:        record[5],
	}, true
}

func (r Row) bracket() (Bracket, bool) {
	from, err := strconv.Atoi(r.SalaryFrom)
	if err != nil {
		return Bracket{}, false
	}
	to, err := strconv.Atoi(r.SalaryTo)
	if err != nil {
		return Bracket{}, false
	}
	tax, err := strconv.Atoi(r.Tax)
	if err != nil {
		return Bracket{}, false
	}
	return Bracket{SalaryFrom: float64(from), SalaryTo: float64(to), Tax: float64(tax)}, true
}

// MergeConsecutivePercentages joins neighbouring percentage brackets that
// share a rate and whose ranges touch or overlap. Fixed-amount brackets are
// kept as they are. The input is not modified.
func MergeConsecutivePercentages(brackets []Bracket, threshold float64) []Bracket {
	merged := make([]Bracket, 0, len(brackets))
	for _, b := range brackets {
		if b.SalaryFrom <= threshold {
			merged = append(merged, b)
			continue
		}

		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.SalaryFrom > threshold && last.Tax == b.Tax && last.SalaryTo >= b.SalaryFrom-1 {
				last.SalaryTo = b.SalaryTo
				continue
			}
		}
		merged = append(merged, b)
	}
	return merged
}

// ReadJSON decodes a processed table.
func ReadJSON(r io.Reader) ([]Bracket, error) {
	var brackets []Bracket
	if err := json.NewDecoder(r).Decode(&brackets); err != nil {
		return nil, err
	}
	return brackets, nil
}

// WriteJSON writes brackets as an indented JSON array.
func WriteJSON(w io.Writer, brackets []Bracket) error {
	data, err := json.MarshalIndent(brackets, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// YearFromFileName extracts the four-digit year from an export name such as
// "Skattetabell månadslön 2026.csv".
func YearFromFileName(name string) (string, bool) {
	match := yearPattern.FindStringSubmatch(name)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// OutputFileName names the processed JSON for a table and year, e.g.
// taxTable31_26.json.
func OutputFileName(tableNr, year string) string {
	short := year
	if len(year) > 2 {
		short = year[len(year)-2:]
	}
	return fmt.Sprintf("taxTable%s_%s.json", tableNr, short)
}
