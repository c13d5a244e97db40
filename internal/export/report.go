package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spigell/career-pilot/internal/model"
	"github.com/spigell/career-pilot/internal/pipeline"
)

// ReportByCompany groups ranked jobs by company for display.
func ReportByCompany(jobs []model.JobCandidate) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range jobs {
		company := job.Company
		if company == "" {
			company = "Unknown company"
		}
		report[company] = append(report[company], map[string]string{
			"title":    job.Title,
			"url":      job.ApplyLink,
			"location": job.Location,
			"remote":   strconv.FormatBool(job.Remote),
			"salary":   job.SalaryRange,
			"score":    strconv.FormatFloat(job.MatchScore, 'f', 1, 64),
		})
	}
	return report
}

// DumpToTmpFile writes the state as indented JSON into a new temp file and returns its path.
func DumpToTmpFile(state pipeline.State) (string, error) {
	file, err := os.CreateTemp("", "career_pilot_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := encode(file, state); err != nil {
		return "", fmt.Errorf("dump state: %w", err)
	}
	return file.Name(), nil
}

// ToFile writes v as indented JSON to path, replacing the file.
func ToFile(path string, v any) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	return encode(file, v)
}

func encode(file *os.File, v any) error {
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
