package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/spigell/career-pilot/internal/ats"
	"github.com/spigell/career-pilot/internal/extraction"
	"github.com/spigell/career-pilot/internal/jsearch"
	"github.com/spigell/career-pilot/internal/model"
	"github.com/spigell/career-pilot/internal/ranking"
)

// Stage names double as error-log tags.
const (
	StageExtract   = "extract"
	StageRecommend = "recommend"
	StageSearch    = "search"
	StageScore     = "score"
)

const searchSuffix = " fresher entry level"

var (
	// ErrNoSkills ends the run right after extraction.
	ErrNoSkills = errors.New("no skills found")
	// ErrNoJobSource is recorded when search runs without a configured source.
	ErrNoJobSource = errors.New("job source is not configured")
)

// Stage is a single step of the onboarding graph.
type Stage interface {
	Name() string
	Apply(ctx context.Context, s State) Patch
	Default() Patch
}

// Extractor turns document text into structured profile data.
type Extractor interface {
	Extract(ctx context.Context, text string) (extraction.Result, error)
}

// Recommender ranks target roles for a profile.
type Recommender interface {
	Recommend(ctx context.Context, skills []string, education []model.EducationEntry, experience []model.ExperienceEntry, topN int) ([]model.RoleMatch, error)
}

// JobSource fetches raw job postings.
type JobSource interface {
	Search(ctx context.Context, q jsearch.Query) ([]model.JobCandidate, error)
}

// Scorer produces an ATS breakdown for resume text against a role.
type Scorer interface {
	Score(ctx context.Context, text, role string) (model.ScoreBreakdown, error)
}

// DocumentReader loads document text from a path.
type DocumentReader interface {
	Text(ctx context.Context, path string) (string, error)
}

type extractStage struct {
	extractor Extractor
	documents DocumentReader
}

func (st *extractStage) Name() string { return StageExtract }

func (st *extractStage) Default() Patch {
	return Patch{Extraction: &Extraction{}}
}

func (st *extractStage) Apply(ctx context.Context, s State) Patch {
	var errs error

	text := s.Input.DocumentText
	if strings.TrimSpace(text) == "" && s.Input.DocumentPath != "" {
		if st.documents == nil {
			errs = multierr.Append(errs, errors.New("document reader is not configured"))
		} else {
			read, err := st.documents.Text(ctx, s.Input.DocumentPath)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("read document: %w", err))
			}
			text = read
		}
	}

	result, err := st.extractor.Extract(ctx, text)
	errs = multierr.Append(errs, err)

	if len(result.Skills) == 0 {
		errs = multierr.Append(errs, ErrNoSkills)
	}

	return Patch{
		Extraction: &Extraction{
			RawText:              result.RawText,
			Skills:               result.Skills,
			Experience:           result.Experience,
			Education:            result.Education,
			TotalExperienceYears: result.TotalExperienceYears,
			Summary:              result.Summary,
			Source:               result.Source,
		},
		Err: errs,
	}
}

type recommendStage struct {
	recommender Recommender
	topN        int
}

func (st *recommendStage) Name() string { return StageRecommend }

func (st *recommendStage) Default() Patch {
	return Patch{Recommendation: &Recommendation{}}
}

func (st *recommendStage) Apply(ctx context.Context, s State) Patch {
	matches, err := st.recommender.Recommend(ctx, s.Extraction.Skills, s.Extraction.Education, s.Extraction.Experience, st.topN)

	rec := &Recommendation{Matches: matches}
	if len(matches) > 0 {
		rec.SelectedRole = matches[0].Role
	}
	return Patch{Recommendation: rec, Err: err}
}

type searchStage struct {
	jobs JobSource
}

func (st *searchStage) Name() string { return StageSearch }

func (st *searchStage) Default() Patch {
	return Patch{Search: &Search{}}
}

func (st *searchStage) Apply(ctx context.Context, s State) Patch {
	if st.jobs == nil {
		return Patch{Search: &Search{}, Err: ErrNoJobSource}
	}

	query := jsearch.Query{
		Text:       s.Recommendation.SelectedRole + searchSuffix,
		Location:   s.Input.LocationPreference,
		RemoteOnly: strings.EqualFold(strings.TrimSpace(s.Input.RemotePreference), "remote"),
	}

	postings, err := st.jobs.Search(ctx, query)
	if err != nil {
		return Patch{Search: &Search{}, Err: fmt.Errorf("job search: %w", err)}
	}

	ranked := ranking.Rank(postings, s.Extraction.Skills, s.Input.LocationPreference)
	return Patch{Search: &Search{Jobs: ranked}}
}

type scoreStage struct {
	scorer Scorer
}

func (st *scoreStage) Name() string { return StageScore }

func (st *scoreStage) Default() Patch {
	return Patch{Score: &model.ScoreBreakdown{
		Suggestions: []string{ats.SuggestNoScoring},
		Source:      model.SourceRules,
	}}
}

func (st *scoreStage) Apply(ctx context.Context, s State) Patch {
	if strings.TrimSpace(s.Extraction.RawText) == "" {
		return Patch{Score: &model.ScoreBreakdown{
			Suggestions: []string{ats.SuggestNoText},
			Source:      model.SourceRules,
		}}
	}

	breakdown, err := st.scorer.Score(ctx, s.Extraction.RawText, s.Recommendation.SelectedRole)
	return Patch{Score: &breakdown, Err: err}
}
