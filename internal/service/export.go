package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aidar/wfm-roster/internal/domain"
)

// ExportScope selects which rows are exported.
type ExportScope string

// Export scopes.
const (
	ExportVisible  ExportScope = "visible"
	ExportSelected ExportScope = "selected"
)

// DefaultExportContext labels exports requested without an explicit context.
const DefaultExportContext = "CSV (текущие колонки)"

var slugPattern = regexp.MustCompile(`[^а-яА-Яa-zA-Z0-9]+`)

// ExportResult is a ready-to-download CSV file.
type ExportResult struct {
	FileName string
	Content  []byte
	Rows     int
}

// ExportCSV renders employees (already filtered and ordered) with the visible
// columns. Every cell goes through RFC 4180 quoting.
func ExportCSV(employees []*domain.Employee, columns domain.ColumnVisibility, contextLabel string, now time.Time, loc *time.Location) (ExportResult, error) {
	if loc == nil {
		loc = time.UTC
	}
	visible := columns.VisibleColumns()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(visible))
	for i, col := range visible {
		header[i] = col.Label
	}
	if err := w.Write(header); err != nil {
		return ExportResult{}, fmt.Errorf("write csv header: %w", err)
	}

	for _, emp := range employees {
		row := make([]string, len(visible))
		for i, col := range visible {
			row[i] = exportCell(emp, col.Key, loc)
		}
		if err := w.Write(row); err != nil {
			return ExportResult{}, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return ExportResult{}, fmt.Errorf("flush csv: %w", err)
	}

	return ExportResult{
		FileName: ExportFileName(contextLabel, now.In(loc)),
		Content:  buf.Bytes(),
		Rows:     len(employees),
	}, nil
}

func exportCell(emp *domain.Employee, key domain.ColumnKey, loc *time.Location) string {
	switch key {
	case domain.ColumnFIO:
		return emp.FullName()
	case domain.ColumnPosition:
		return emp.WorkInfo.Position
	case domain.ColumnOrgUnit:
		return emp.OrgPlacement.OrgUnit
	case domain.ColumnTeam:
		return emp.WorkInfo.Team.Name
	case domain.ColumnScheme:
		if emp.OrgPlacement.WorkScheme == nil {
			return ""
		}
		return emp.OrgPlacement.WorkScheme.Name
	case domain.ColumnHourNorm:
		return strconv.Itoa(emp.OrgPlacement.HourNorm)
	case domain.ColumnStatus:
		return emp.Status.Label()
	case domain.ColumnHireDate:
		if emp.WorkInfo.HireDate.IsZero() {
			return ""
		}
		return emp.WorkInfo.HireDate.In(loc).Format("02.01.2006")
	default:
		return ""
	}
}

// ExportFileName builds employees_export_<slug>_<YYYY-MM-DD>.csv.
func ExportFileName(contextLabel string, day time.Time) string {
	slug := strings.Trim(strings.ToLower(slugPattern.ReplaceAllString(contextLabel, "-")), "-")
	return fmt.Sprintf("employees_export_%s_%s.csv", slug, day.Format(time.DateOnly))
}
