package recommend

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/ai"
	"github.com/spigell/career-pilot/internal/model"
)

// DefaultTopN is used when the caller asks for a non-positive number of roles.
const DefaultTopN = 5

const systemPrompt = "You are a career counselor specializing in tech careers for freshers. " +
	"You understand the job market, trending roles, and skill requirements."

//go:embed prompt.md
var promptTemplate string

//go:embed schema.json
var schemaDocument string

var replySchema = ai.MustSchema(schemaDocument)

// Engine ranks candidate roles against a profile.
type Engine struct {
	generator ai.Generator
	logger    *zap.Logger
}

// New creates an Engine. A nil generator means catalog ranking only.
func New(generator ai.Generator, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{generator: generator, logger: logger}
}

// Recommend returns at most topN role matches ordered by score. The generator
// ranking is used when it yields at least one valid role; otherwise the
// catalog containment ranking is returned. The error reports a generator failure.
func (e *Engine) Recommend(ctx context.Context, skills []string, education []model.EducationEntry, experience []model.ExperienceEntry, topN int) ([]model.RoleMatch, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var primary func(context.Context) ([]model.RoleMatch, error)
	if e.generator != nil {
		primary = func(ctx context.Context) ([]model.RoleMatch, error) {
			return e.generate(ctx, skills, education, experience, topN)
		}
	}

	outcome := ai.Fallback(ctx, primary, nonEmpty, func() []model.RoleMatch {
		return ByContainment(skills, topN)
	})
	if outcome.Err != nil {
		e.logger.Warn("generative recommendation failed, using catalog", zap.Error(outcome.Err))
	}

	e.logger.Debug("recommendation finished",
		zap.String("source", string(outcome.Source)),
		zap.Int("roles", len(outcome.Value)),
	)

	return outcome.Value, outcome.Err
}

func nonEmpty(matches []model.RoleMatch) error {
	if len(matches) == 0 {
		return fmt.Errorf("no valid roles in reply: %w", ai.ErrEmptyResult)
	}
	return nil
}

func (e *Engine) generate(ctx context.Context, skills []string, education []model.EducationEntry, experience []model.ExperienceEntry, topN int) ([]model.RoleMatch, error) {
	educationJSON, err := json.Marshal(education)
	if err != nil {
		return nil, fmt.Errorf("marshal education: %w", err)
	}
	experienceJSON, err := json.Marshal(experience)
	if err != nil {
		return nil, fmt.Errorf("marshal experience: %w", err)
	}

	prompt := strings.NewReplacer(
		"{{TOP_N}}", fmt.Sprint(topN),
		"{{SKILLS}}", strings.Join(skills, ", "),
		"{{EDUCATION}}", string(educationJSON),
		"{{EXPERIENCE}}", string(experienceJSON),
	).Replace(promptTemplate)

	var matches []model.RoleMatch
	if _, err := ai.GenerateJSON(ctx, e.generator, ai.JSONRequest{
		System: systemPrompt,
		Prompt: prompt,
		Schema: replySchema,
	}, &matches); err != nil {
		return nil, err
	}

	return normalize(matches, topN), nil
}

// normalize drops unnamed roles, clamps scores to [0,100] and keeps the
// reply order for equal scores.
func normalize(matches []model.RoleMatch, topN int) []model.RoleMatch {
	valid := make([]model.RoleMatch, 0, len(matches))
	for _, m := range matches {
		m.Role = strings.TrimSpace(m.Role)
		if m.Role == "" {
			continue
		}
		if math.IsNaN(m.Score) {
			m.Score = 0
		}
		m.Score = math.Min(100, math.Max(0, m.Score))
		if m.MatchedSkills == nil {
			m.MatchedSkills = []string{}
		}
		if m.MissingSkills == nil {
			m.MissingSkills = []string{}
		}
		m.Reasoning = strings.TrimSpace(m.Reasoning)
		valid = append(valid, m)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Score > valid[j].Score
	})

	if len(valid) > topN {
		valid = valid[:topN]
	}
	return valid
}

// ByContainment ranks the catalog by the share of each role's skills the
// candidate has, rounded to one decimal. Ties keep catalog order.
func ByContainment(skills []string, topN int) []model.RoleMatch {
	if topN <= 0 {
		topN = DefaultTopN
	}

	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	results := make([]model.RoleMatch, 0, len(catalog))
	for _, role := range catalog {
		matched := make([]string, 0)
		missing := make([]string, 0)
		for _, skill := range role.Skills {
			if _, ok := have[skill]; ok {
				matched = append(matched, skill)
			} else {
				missing = append(missing, skill)
			}
		}
		sort.Strings(matched)
		sort.Strings(missing)

		score := float64(len(matched)) / float64(len(role.Skills)) * 100
		results = append(results, model.RoleMatch{
			Role:          role.Name,
			Score:         math.Round(score*10) / 10,
			MatchedSkills: matched,
			MissingSkills: missing,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results
}
