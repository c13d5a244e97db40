package pipeline

import (
	"github.com/spigell/career-pilot/internal/model"
)

// Input holds what the caller provides to start a run.
type Input struct {
	RunID              string `json:"run_id"`
	CandidateID        string `json:"candidate_id"`
	DocumentPath       string `json:"document_path,omitempty"`
	DocumentText       string `json:"document_text,omitempty"`
	LocationPreference string `json:"location_preference,omitempty"`
	RemotePreference   string `json:"remote_preference,omitempty"`
}

// Extraction is the group written by the extract stage.
type Extraction struct {
	RawText              string                  `json:"raw_text"`
	Skills               []string                `json:"skills"`
	Experience           []model.ExperienceEntry `json:"experience"`
	Education            []model.EducationEntry  `json:"education"`
	TotalExperienceYears float64                 `json:"total_experience_years"`
	Summary              string                  `json:"summary"`
	Source               string                  `json:"source,omitempty"`
}

// Recommendation is the group written by the recommend stage.
type Recommendation struct {
	Matches      []model.RoleMatch `json:"recommendations"`
	SelectedRole string            `json:"selected_role,omitempty"`
}

// Search is the group written by the search stage.
type Search struct {
	Jobs []model.JobCandidate `json:"matched_jobs"`
}

// State is threaded through every stage of one run. Each stage writes only
// its own group; Errors is append-only.
type State struct {
	Input          Input                `json:"input"`
	Extraction     Extraction           `json:"extraction"`
	Recommendation Recommendation       `json:"recommendation"`
	Search         Search               `json:"search"`
	Score          model.ScoreBreakdown `json:"ats_result"`
	Errors         []string             `json:"errors"`
}

// Patch is the partial state a stage returns. Nil groups are left untouched
// by the merge.
type Patch struct {
	Extraction     *Extraction
	Recommendation *Recommendation
	Search         *Search
	Score          *model.ScoreBreakdown
	Err            error
}

func (s State) merge(p Patch) State {
	if p.Extraction != nil {
		s.Extraction = *p.Extraction
	}
	if p.Recommendation != nil {
		s.Recommendation = *p.Recommendation
	}
	if p.Search != nil {
		s.Search = *p.Search
	}
	if p.Score != nil {
		s.Score = *p.Score
	}
	return s
}

// normalize replaces nil sequences with empty ones so callers and encoders see [] instead of null.
func (s State) normalize() State {
	if s.Extraction.Skills == nil {
		s.Extraction.Skills = []string{}
	}
	if s.Extraction.Experience == nil {
		s.Extraction.Experience = []model.ExperienceEntry{}
	}
	if s.Extraction.Education == nil {
		s.Extraction.Education = []model.EducationEntry{}
	}
	if s.Recommendation.Matches == nil {
		s.Recommendation.Matches = []model.RoleMatch{}
	}
	if s.Search.Jobs == nil {
		s.Search.Jobs = []model.JobCandidate{}
	}
	if s.Score.MissingKeywords == nil {
		s.Score.MissingKeywords = []string{}
	}
	if s.Score.Suggestions == nil {
		s.Score.Suggestions = []string{}
	}
	if s.Score.VerbsFound == nil {
		s.Score.VerbsFound = []string{}
	}
	if s.Score.VerbsMissing == nil {
		s.Score.VerbsMissing = []string{}
	}
	if s.Errors == nil {
		s.Errors = []string{}
	}
	return s
}
