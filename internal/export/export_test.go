package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spigell/career-pilot/internal/model"
	"github.com/spigell/career-pilot/internal/pipeline"
	"github.com/spigell/career-pilot/internal/roadmap"
)

func sampleState() pipeline.State {
	return pipeline.State{
		Input: pipeline.Input{RunID: "run-1", CandidateID: "cand-1"},
		Extraction: pipeline.Extraction{
			Skills:               []string{"python", "sql"},
			TotalExperienceYears: 1.5,
		},
		Recommendation: pipeline.Recommendation{
			Matches: []model.RoleMatch{
				{Role: "Data Analyst", Score: 30, MatchedSkills: []string{"python", "sql"}, MissingSkills: []string{"tableau"}},
				{Role: "Business Analyst", Score: 22.2},
			},
			SelectedRole: "Data Analyst",
		},
		Search: pipeline.Search{Jobs: []model.JobCandidate{
			{Title: "Junior Analyst", Company: "Acme", ApplyLink: "https://acme.example/jobs/1", MatchScore: 80, SalaryRange: "USD 50,000+"},
			{Title: "Data Intern", Company: "Acme", MatchScore: 60},
			{Title: "Analyst", MatchScore: 40, Remote: true},
		}},
		Score: model.ScoreBreakdown{
			Total: 44, Keyword: 16, ActionVerb: 9, Achievement: 10, Format: 9,
			Suggestions: []string{"Add more quantified achievements"},
		},
		Errors: []string{"search: quota exceeded"},
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report")
	days := roadmap.Template("Data Analyst", 2, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))

	written, err := Write(Report{State: sampleState(), Roadmap: days}, path)
	require.NoError(t, err)
	assert.Equal(t, path+".xlsx", written)

	f, err := excelize.OpenFile(written)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetRoles, SheetJobs, SheetATS, SheetRoadmap}, f.GetSheetList())

	role, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", role)

	roles, err := f.GetRows(SheetRoles)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, []string{"1", "Data Analyst", "30", "python, sql", "tableau"}, roles[1])

	jobs, err := f.GetRows(SheetJobs)
	require.NoError(t, err)
	assert.Len(t, jobs, 4)

	ok, link, err := f.GetCellHyperLink(SheetJobs, "J2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://acme.example/jobs/1", link)

	total, err := f.GetCellValue(SheetATS, "B2")
	require.NoError(t, err)
	assert.Equal(t, "44", total)

	plan, err := f.GetRows(SheetRoadmap)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, "2025-03-03", plan[1][0])
}

func TestWriteWithoutRoadmapKeepsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.XLSX")

	written, err := Write(Report{State: pipeline.State{}}, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	f, err := excelize.OpenFile(written)
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), SheetRoadmap)
}

func TestReportByCompany(t *testing.T) {
	report := ReportByCompany(sampleState().Search.Jobs)

	require.Len(t, report["Acme"], 2)
	assert.Equal(t, "Junior Analyst", report["Acme"][0]["title"])
	assert.Equal(t, "80.0", report["Acme"][0]["score"])
	assert.Equal(t, "USD 50,000+", report["Acme"][0]["salary"])
	require.Len(t, report["Unknown company"], 1)
	assert.Equal(t, "true", report["Unknown company"][0]["remote"])
}

func TestDumpToTmpFile(t *testing.T) {
	path, err := DumpToTmpFile(sampleState())
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded pipeline.State
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Data Analyst", decoded.Recommendation.SelectedRole)
	assert.Contains(t, string(data), "\n  \"input\"")
}

func TestToFileTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"very": "long previous content that must disappear"}`), 0o644))

	require.NoError(t, ToFile(path, map[string]int{"a": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(data))
}
