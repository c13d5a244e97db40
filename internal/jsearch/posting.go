package jsearch

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spigell/career-pilot/internal/model"
	"github.com/spigell/career-pilot/internal/utils"
)

// DescriptionLimit bounds the stored description length in characters.
const DescriptionLimit = 2000

const defaultCurrency = "USD"

var amounts = message.NewPrinter(language.English)

// Posting is the subset of JSearch fields the service uses.
type Posting struct {
	ID          string   `json:"job_id"`
	Title       string   `json:"job_title"`
	Employer    string   `json:"employer_name"`
	City        string   `json:"job_city"`
	Country     string   `json:"job_country"`
	Remote      bool     `json:"job_is_remote"`
	ApplyLink   string   `json:"job_apply_link"`
	Description string   `json:"job_description"`
	MinSalary   *float64 `json:"job_min_salary"`
	MaxSalary   *float64 `json:"job_max_salary"`
	Currency    string   `json:"job_salary_currency"`
}

// Normalize converts raw postings into job candidates ready for ranking.
func Normalize(postings []Posting) []model.JobCandidate {
	jobs := make([]model.JobCandidate, 0, len(postings))
	for _, p := range postings {
		location := strings.TrimSpace(p.City)
		if location == "" {
			location = strings.TrimSpace(p.Country)
		}

		jobs = append(jobs, model.JobCandidate{
			ExternalID:  p.ID,
			Title:       p.Title,
			Company:     p.Employer,
			Location:    location,
			Remote:      p.Remote,
			ApplyLink:   p.ApplyLink,
			Description: utils.TruncateRunes(p.Description, DescriptionLimit),
			SalaryRange: SalaryRange(p.MinSalary, p.MaxSalary, p.Currency),
		})
	}
	return jobs
}

// SalaryRange renders "USD 50,000 - 80,000", "USD 50,000+" or an empty string.
func SalaryRange(minSalary, maxSalary *float64, currency string) string {
	if currency = strings.TrimSpace(currency); currency == "" {
		currency = defaultCurrency
	}

	hasMin := minSalary != nil && *minSalary > 0
	hasMax := maxSalary != nil && *maxSalary > 0

	switch {
	case hasMin && hasMax:
		return amounts.Sprintf("%s %.0f - %.0f", currency, *minSalary, *maxSalary)
	case hasMin:
		return amounts.Sprintf("%s %.0f+", currency, *minSalary)
	default:
		return ""
	}
}
