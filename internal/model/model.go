package model

import "fmt"

// ExperienceEntry is one block of work history found in a résumé.
type ExperienceEntry struct {
	Title    string `json:"title,omitempty" mapstructure:"title"`
	Company  string `json:"company,omitempty" mapstructure:"company"`
	Duration string `json:"duration,omitempty" mapstructure:"duration"`
	Detail   string `json:"detail,omitempty" mapstructure:"detail"`
}

// EducationEntry is one degree or qualification found in a résumé.
type EducationEntry struct {
	Degree      string `json:"degree,omitempty" mapstructure:"degree"`
	Institution string `json:"institution,omitempty" mapstructure:"institution"`
	Year        string `json:"year,omitempty" mapstructure:"year"`
	Detail      string `json:"detail,omitempty" mapstructure:"detail"`
}

// RoleMatch scores how well a candidate fits a role.
type RoleMatch struct {
	Role          string   `json:"job_role" mapstructure:"job_role"`
	Score         float64  `json:"match_score" mapstructure:"match_score"`
	MatchedSkills []string `json:"matched_skills" mapstructure:"matched_skills"`
	MissingSkills []string `json:"missing_skills" mapstructure:"missing_skills"`
	Reasoning     string   `json:"reasoning,omitempty" mapstructure:"reasoning"`
}

// MatchDetails explains how a job candidate score was composed.
type MatchDetails struct {
	Skill     float64 `json:"skill_score"`
	Location  float64 `json:"location_score"`
	Seniority float64 `json:"experience_score"`
}

// JobCandidate is a normalised job posting with its computed fit.
type JobCandidate struct {
	ExternalID  string       `json:"external_id"`
	Title       string       `json:"title"`
	Company     string       `json:"company"`
	Location    string       `json:"location"`
	Remote      bool         `json:"is_remote"`
	ApplyLink   string       `json:"apply_link"`
	Description string       `json:"description"`
	SalaryRange string       `json:"salary_range,omitempty"`
	MatchScore  float64      `json:"match_score"`
	Details     MatchDetails `json:"match_details"`
}

// Score sources.
const (
	SourceGenerative = "generative"
	SourceRules      = "rules"
)

// ScoreBreakdown is the ATS assessment of a résumé.
type ScoreBreakdown struct {
	Total           int      `json:"total_score"`
	Keyword         int      `json:"keyword_score"`
	ActionVerb      int      `json:"action_verb_score"`
	Achievement     int      `json:"achievement_score"`
	Format          int      `json:"format_score"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions"`
	VerbsFound      []string `json:"action_verbs_found"`
	VerbsMissing    []string `json:"action_verbs_missing"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	Source          string   `json:"source,omitempty"`
}

// Check verifies that the sub-scores add up to the total and stay in range.
func (b ScoreBreakdown) Check() error {
	if sum := b.Keyword + b.ActionVerb + b.Achievement + b.Format; sum != b.Total {
		return fmt.Errorf("total %d does not match sub-score sum %d", b.Total, sum)
	}

	bounds := []struct {
		name  string
		value int
		max   int
	}{
		{"keyword", b.Keyword, 40},
		{"action verb", b.ActionVerb, 20},
		{"achievement", b.Achievement, 20},
		{"format", b.Format, 20},
	}
	for _, bound := range bounds {
		if bound.value < 0 || bound.value > bound.max {
			return fmt.Errorf("%s score %d is out of range [0,%d]", bound.name, bound.value, bound.max)
		}
	}

	return nil
}
