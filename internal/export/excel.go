// Package export renders pipeline results for people: XLSX workbooks, JSON
// dumps and a jobs-by-company report.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/career-pilot/internal/pipeline"
	"github.com/spigell/career-pilot/internal/roadmap"
)

// Sheet names of the workbook.
const (
	SheetSummary = "Summary"
	SheetRoles   = "Roles"
	SheetJobs    = "Jobs"
	SheetATS     = "ATS"
	SheetRoadmap = "Roadmap"
)

// Report is everything written into one workbook.
type Report struct {
	State   pipeline.State
	Roadmap []roadmap.Day
}

// Write saves r as an XLSX workbook and returns the final path. The .xlsx
// extension is added when missing. The Roadmap sheet is written only when
// the report carries a plan.
func Write(r Report, path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return "", err
	}

	st, err := newStyles(f)
	if err != nil {
		return "", fmt.Errorf("create styles: %w", err)
	}

	writers := []sheetWriter{
		{SheetSummary, writeSummary},
		{SheetRoles, writeRoles},
		{SheetJobs, writeJobs},
		{SheetATS, writeATS},
	}
	if len(r.Roadmap) > 0 {
		writers = append(writers, sheetWriter{SheetRoadmap, writeRoadmap})
	}

	for _, w := range writers {
		if w.name != SheetSummary {
			if _, err := f.NewSheet(w.name); err != nil {
				return "", fmt.Errorf("create %s sheet: %w", w.name, err)
			}
		}
		if err := w.write(f, st, r); err != nil {
			return "", fmt.Errorf("write %s sheet: %w", w.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

type sheetWriter struct {
	name  string
	write func(*excelize.File, styles, Report) error
}

type styles struct {
	header int
	label  int
	wrap   int
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return styles{}, err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styles{}, err
	}
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    border,
	})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header, label: label, wrap: wrap}, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// writeTable writes a header row plus rows and freezes the header.
func writeTable(f *excelize.File, st styles, sheet string, headers []string, widths []float64, rows [][]any) error {
	for i, h := range headers {
		c := cell(i+1, 1)
		if err := f.SetCellValue(sheet, c, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, c, c, st.header); err != nil {
			return err
		}
		if i < len(widths) {
			col, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
				return err
			}
		}
	}

	for r, values := range rows {
		row := r + 2
		if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), st.wrap); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		ref := fmt.Sprintf("%s:%s", cell(1, 1), cell(len(headers), len(rows)+1))
		if err := f.AutoFilter(sheet, ref, []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, st styles, r Report) error {
	s := r.State
	pairs := [][2]any{
		{"Run ID", s.Input.RunID},
		{"Candidate", s.Input.CandidateID},
		{"Selected role", s.Recommendation.SelectedRole},
		{"Skills", strings.Join(s.Extraction.Skills, ", ")},
		{"Experience (years)", s.Extraction.TotalExperienceYears},
		{"Summary", s.Extraction.Summary},
		{"Extraction source", s.Extraction.Source},
		{"Roles recommended", len(s.Recommendation.Matches)},
		{"Jobs matched", len(s.Search.Jobs)},
		{"ATS score", s.Score.Total},
		{"Errors", strings.Join(s.Errors, "\n")},
	}

	if err := f.SetColWidth(SheetSummary, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "B", "B", 70); err != nil {
		return err
	}
	for i, p := range pairs {
		row := i + 1
		if err := f.SetCellValue(SheetSummary, cell(1, row), p[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetSummary, cell(1, row), cell(1, row), st.label); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetSummary, cell(2, row), p[1]); err != nil {
			return err
		}
	}
	return nil
}

func writeRoles(f *excelize.File, st styles, r Report) error {
	rows := make([][]any, 0, len(r.State.Recommendation.Matches))
	for i, m := range r.State.Recommendation.Matches {
		rows = append(rows, []any{
			i + 1,
			m.Role,
			m.Score,
			strings.Join(m.MatchedSkills, ", "),
			strings.Join(m.MissingSkills, ", "),
			m.Reasoning,
		})
	}
	return writeTable(f, st, SheetRoles,
		[]string{"Rank", "Role", "Score", "Matched skills", "Missing skills", "Reasoning"},
		[]float64{8, 28, 10, 35, 35, 60},
		rows)
}

func writeJobs(f *excelize.File, st styles, r Report) error {
	rows := make([][]any, 0, len(r.State.Search.Jobs))
	for _, j := range r.State.Search.Jobs {
		rows = append(rows, []any{
			j.MatchScore,
			j.Title,
			j.Company,
			j.Location,
			j.Remote,
			j.SalaryRange,
			j.Details.Skill,
			j.Details.Location,
			j.Details.Seniority,
			j.ApplyLink,
		})
	}
	if err := writeTable(f, st, SheetJobs,
		[]string{"Score", "Title", "Company", "Location", "Remote", "Salary", "Skill", "Location fit", "Seniority", "Apply"},
		[]float64{8, 35, 25, 20, 8, 22, 8, 12, 10, 40},
		rows); err != nil {
		return err
	}

	for i, j := range r.State.Search.Jobs {
		if j.ApplyLink == "" {
			continue
		}
		if err := f.SetCellHyperLink(SheetJobs, cell(10, i+2), j.ApplyLink, "External"); err != nil {
			return err
		}
	}
	return nil
}

func writeATS(f *excelize.File, st styles, r Report) error {
	b := r.State.Score
	rows := [][]any{
		{"Total", b.Total, ""},
		{"Keywords", b.Keyword, strings.Join(b.MissingKeywords, ", ")},
		{"Action verbs", b.ActionVerb, strings.Join(b.VerbsMissing, ", ")},
		{"Achievements", b.Achievement, ""},
		{"Format", b.Format, ""},
	}
	for _, s := range b.Suggestions {
		rows = append(rows, []any{"Suggestion", "", s})
	}
	for _, s := range b.Strengths {
		rows = append(rows, []any{"Strength", "", s})
	}
	for _, s := range b.Weaknesses {
		rows = append(rows, []any{"Weakness", "", s})
	}
	return writeTable(f, st, SheetATS,
		[]string{"Item", "Score", "Details"},
		[]float64{16, 8, 80},
		rows)
}

func writeRoadmap(f *excelize.File, st styles, r Report) error {
	rows := make([][]any, 0, len(r.Roadmap))
	for _, d := range r.Roadmap {
		rows = append(rows, []any{
			d.DateString(),
			d.Focus,
			d.JobsToApply,
			d.ReferralsToSend,
			d.RecruitersToConnect,
			strings.Join(d.Tasks, "\n"),
			d.Completed,
		})
	}
	return writeTable(f, st, SheetRoadmap,
		[]string{"Date", "Focus", "Applications", "Referrals", "Recruiters", "Tasks", "Done"},
		[]float64{12, 24, 12, 10, 10, 70, 8},
		rows)
}
