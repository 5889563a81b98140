package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// Rent reference columns; both the source CSV labels and snake_case are accepted
var (
	rentDepartmentCols = []string{"Département", "code_departement"}
	rentMedianCols     = []string{"Loyer médian", "loyer_median"}
	rentPerAreaCols    = []string{"Loyer/m² médian", "loyer_m2_median"}
)

// RentCSVSource reads department rent references from a CSV file
type RentCSVSource struct {
	path string
	log  *logger.Logger
}

// NewRentCSVSource creates a new RentCSVSource
func NewRentCSVSource(path string, log *logger.Logger) *RentCSVSource {
	if log == nil {
		log = logger.Nop()
	}
	return &RentCSVSource{path: path, log: log.Component("s0_data.loader")}
}

// LoadRentReferences implements contracts.RentReferenceSource
func (s *RentCSVSource) LoadRentReferences(ctx context.Context) ([]contracts.RentReference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read rent file: %w", err)
	}

	decoded, enc := Decode(data)
	refs, err := ReadRentReferences(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	s.log.WithFields(map[string]interface{}{
		"path":        s.path,
		"encoding":    enc,
		"departments": len(refs),
	}).Info("Rent references loaded")

	return refs, nil
}

// ReadRentReferences parses UTF-8 rent reference CSV content.
// Rows without a department or a positive rent per m² are skipped.
func ReadRentReferences(r io.Reader) ([]contracts.RentReference, error) {
	records, err := newReader(r)
	if err != nil {
		return nil, err
	}

	header, err := records.header()
	if err != nil {
		return nil, err
	}

	deptIdx, err := lookupColumn(header, rentDepartmentCols)
	if err != nil {
		return nil, err
	}
	perAreaIdx, err := lookupColumn(header, rentPerAreaCols)
	if err != nil {
		return nil, err
	}
	medianIdx, _ := lookupColumn(header, rentMedianCols) // 선택 컬럼

	var refs []contracts.RentReference
	for {
		rec, err := records.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		dept := field(rec, deptIdx)
		perArea := ParseNumber(field(rec, perAreaIdx))
		if dept == "" || perArea == nil || *perArea <= 0 {
			continue
		}

		ref := contracts.RentReference{
			DepartmentCode:    dept,
			MedianRentPerArea: *perArea,
		}
		if median := ParseNumber(field(rec, medianIdx)); median != nil {
			ref.MedianRent = *median
		}
		refs = append(refs, ref)
	}

	return refs, nil
}

// lookupColumn returns the index of the first present alias, -1 when absent
func lookupColumn(header map[string]int, aliases []string) (int, error) {
	for _, name := range aliases {
		if i, ok := header[name]; ok {
			return i, nil
		}
	}
	return -1, contracts.MissingColumn(aliases[0])
}
