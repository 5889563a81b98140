package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
)

// Sheet names
const (
	SheetZones         = "Zones"
	SheetTop5          = "Top5"
	SheetDepartments   = "Departements"
	SheetOpportunities = "Opportunites"
)

var (
	zoneHeader = []interface{}{
		"nom_commune", "code_departement", "score_global", "prix_m2", "prix_moyen",
		"nb_transactions", "surface_reelle_bati", "score_prix", "score_liquidite",
		"score_surface", "score_rendement", "rendement_brut", "rentabilite_prix", "categorie_zone",
	}
	pickHeader = []interface{}{
		"nom_commune", "code_departement", "score_global", "rendement_brut", "prix_moyen", "categorie_zone",
	}
	departmentHeader = []interface{}{
		"code_departement", "score_global", "rendement_brut", "prix_moyen", "nb_communes_attractives",
	}
	opportunityHeader = []interface{}{
		"nom_commune", "code_departement", "type_local", "valeur_fonciere", "surface_reelle_bati",
		"prix_m2", "prix_m2_moyen_commune", "nb_transactions_commune", "rendement_brut_estime",
		"score_global", "classification",
	}
)

// WriteXLSX writes the zone tables as an Excel workbook
func (w *Writer) WriteXLSX(ctx context.Context, report *Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	// 기본 시트 → Zones
	if err := f.SetSheetName(f.GetSheetName(0), SheetZones); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetTop5, SheetDepartments, SheetOpportunities} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, SheetZones, zoneHeader, zoneRows(report.Zones)); err != nil {
		return "", err
	}

	var picks []contracts.ZonePick
	var departments []contracts.DepartmentStat
	if report.Recommendation != nil {
		picks = report.Recommendation.Top5Global
		departments = report.Recommendation.Departments
	}
	if err := writeRows(f, SheetTop5, pickHeader, pickRows(picks)); err != nil {
		return "", err
	}
	if err := writeRows(f, SheetDepartments, departmentHeader, departmentRows(departments)); err != nil {
		return "", err
	}
	if err := writeRows(f, SheetOpportunities, opportunityHeader, opportunityRows(report.Opportunities)); err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, baseName(report)+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	w.logger.WithFields(map[string]interface{}{
		"path":          path,
		"zones":         len(report.Zones),
		"top5":          len(picks),
		"departments":   len(departments),
		"opportunities": len(report.Opportunities),
	}).Info("XLSX report written")

	return path, nil
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func zoneRows(zones []contracts.Zone) [][]interface{} {
	rows := make([][]interface{}, 0, len(zones))
	for _, z := range zones {
		rows = append(rows, []interface{}{
			z.Commune, z.Department, z.GlobalScore, z.PricePerArea, z.MeanPrice,
			z.Transactions, z.MeanBuiltArea, z.PriceScore, z.LiquidityScore,
			z.SizeScore, z.YieldScore, cellFloat(z.GrossYield), cellFloat(z.ProfitabilityIndex), z.Category,
		})
	}
	return rows
}

func pickRows(picks []contracts.ZonePick) [][]interface{} {
	rows := make([][]interface{}, 0, len(picks))
	for _, p := range picks {
		rows = append(rows, []interface{}{
			p.Commune, p.Department, p.GlobalScore, cellFloat(p.GrossYield), p.MeanPrice, p.Category,
		})
	}
	return rows
}

func departmentRows(departments []contracts.DepartmentStat) [][]interface{} {
	rows := make([][]interface{}, 0, len(departments))
	for _, d := range departments {
		rows = append(rows, []interface{}{
			d.Department, d.MeanGlobalScore, cellFloat(d.MeanGrossYield), d.MeanPrice, d.AttractiveCommunes,
		})
	}
	return rows
}

func opportunityRows(records []contracts.ScoredRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Commune, r.DepartmentCode, r.PropertyType, r.SaleValue, r.BuiltArea,
			r.PricePerArea, r.ZoneMeanPricePerArea, r.ZoneTransactions, cellFloat(r.EstimatedYield),
			r.GlobalScore, r.Classification,
		})
	}
	return rows
}

// nil → 빈 셀
func cellFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
