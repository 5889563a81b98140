package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// CSVSource reads DVF mutations from a CSV export
type CSVSource struct {
	path string
	log  *logger.Logger
}

// NewCSVSource creates a new CSVSource
func NewCSVSource(path string, log *logger.Logger) *CSVSource {
	if log == nil {
		log = logger.Nop()
	}
	return &CSVSource{path: path, log: log.Component("s0_data.loader")}
}

// LoadTransactions implements contracts.TransactionSource
func (s *CSVSource) LoadTransactions(ctx context.Context) ([]contracts.RawTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read dvf file: %w", err)
	}

	decoded, enc := Decode(data)
	rows, err := ReadTransactions(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	s.log.WithFields(map[string]interface{}{
		"path":     s.path,
		"encoding": enc,
		"rows":     len(rows),
	}).Info("DVF file loaded")

	return rows, nil
}

// ReadTransactions parses UTF-8 DVF CSV content.
// The separator is detected on the header line (';' for official exports).
func ReadTransactions(r io.Reader) ([]contracts.RawTransaction, error) {
	records, err := newReader(r)
	if err != nil {
		return nil, err
	}

	header, err := records.header()
	if err != nil {
		return nil, err
	}
	for _, col := range contracts.RequiredColumns {
		if _, ok := header[col]; !ok {
			return nil, contracts.MissingColumn(col)
		}
	}
	roomsIdx, hasRooms := header[contracts.ColRooms]

	var rows []contracts.RawTransaction
	for {
		rec, err := records.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := contracts.RawTransaction{
			Commune:        field(rec, header[contracts.ColCommune]),
			DepartmentCode: field(rec, header[contracts.ColDepartment]),
			SaleValue:      ParseNumber(field(rec, header[contracts.ColSaleValue])),
			BuiltArea:      ParseNumber(field(rec, header[contracts.ColBuiltArea])),
			MutationDate:   field(rec, header[contracts.ColMutationDate]),
			PropertyType:   field(rec, header[contracts.ColPropertyType]),
		}
		if hasRooms {
			if n := ParseNumber(field(rec, roomsIdx)); n != nil {
				rooms := int(math.Round(*n))
				row.Rooms = &rooms
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ParseNumber parses a DVF numeric cell; "123 456,78" and "123456.78" both work.
// Empty or malformed cells give nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "") // 1,234.56
	} else {
		s = strings.Replace(s, ",", ".", 1) // 1234,56
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// csvRecords wraps encoding/csv with header handling
type csvRecords struct {
	r    *csv.Reader
	line int
}

func newReader(r io.Reader) (*csvRecords, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	buf = bytes.TrimPrefix(buf, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(buf))
	cr.Comma = detectSeparator(buf)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	return &csvRecords{r: cr}, nil
}

// header maps each column name to its index
func (c *csvRecords) header() (map[string]int, error) {
	cols, err := c.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &contracts.ValidationError{Field: "header", Message: "empty file"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	c.line = 1

	idx := make(map[string]int, len(cols))
	for i, col := range cols {
		name := strings.TrimSpace(col)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx, nil
}

func (c *csvRecords) next() ([]string, error) {
	rec, err := c.r.Read()
	c.line++
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("line %d: %w", c.line, err)
	}
	return rec, err
}

// detectSeparator picks ';' or ',' from the header line
func detectSeparator(buf []byte) rune {
	first := buf
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		first = buf[:i]
	}
	if bytes.Count(first, []byte{','}) > bytes.Count(first, []byte{';'}) {
		return ','
	}
	return ';'
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
