// Package ats scores résumé text the way applicant tracking systems do.
package ats

import (
	"context"
	_ "embed"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/ai"
	"github.com/spigell/career-pilot/internal/model"
	"github.com/spigell/career-pilot/internal/utils"
)

const promptTextLimit = 4000

const systemPrompt = "You are an ATS (Applicant Tracking System) expert and hiring manager. " +
	"Score resumes critically but fairly. Be specific in suggestions."

//go:embed prompt.md
var promptTemplate string

//go:embed schema.json
var schemaDocument string

var replySchema = ai.MustSchema(schemaDocument)

type reply struct {
	Keyword         float64  `mapstructure:"keyword_score"`
	ActionVerb      float64  `mapstructure:"action_verb_score"`
	Achievement     float64  `mapstructure:"achievement_score"`
	Format          float64  `mapstructure:"format_score"`
	MissingKeywords []string `mapstructure:"missing_keywords"`
	Suggestions     []string `mapstructure:"suggestions"`
	VerbsFound      []string `mapstructure:"action_verbs_found"`
	VerbsMissing    []string `mapstructure:"action_verbs_missing"`
	Strengths       []string `mapstructure:"strengths"`
	Weaknesses      []string `mapstructure:"weaknesses"`
}

// Engine scores résumés against a target role.
type Engine struct {
	generator ai.Generator
	logger    *zap.Logger
}

// New creates an Engine. A nil generator means rule scoring only.
func New(generator ai.Generator, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{generator: generator, logger: logger}
}

// Score rates text for role. The generator is consulted only when a role is
// given; its sub-scores are clamped and the total is recomputed from them.
// Without a role, or on any generator failure, the rule scorer is used.
func (e *Engine) Score(ctx context.Context, text, role string) (model.ScoreBreakdown, error) {
	role = strings.TrimSpace(role)

	var primary func(context.Context) (model.ScoreBreakdown, error)
	if e.generator != nil && role != "" {
		primary = func(ctx context.Context) (model.ScoreBreakdown, error) {
			return e.generate(ctx, text, role)
		}
	}

	outcome := ai.Fallback(ctx, primary, model.ScoreBreakdown.Check, func() model.ScoreBreakdown {
		return Rules(text, role)
	})
	if outcome.Err != nil {
		e.logger.Warn("generative ats scoring failed, using rules", zap.String("role", role), zap.Error(outcome.Err))
	}

	e.logger.Debug("ats scoring finished",
		zap.String("source", outcome.Value.Source),
		zap.Int("total", outcome.Value.Total),
	)

	return outcome.Value, outcome.Err
}

func (e *Engine) generate(ctx context.Context, text, role string) (model.ScoreBreakdown, error) {
	prompt := strings.NewReplacer(
		"{{ROLE}}", role,
		"{{RESUME_TEXT}}", utils.TruncateRunes(text, promptTextLimit),
	).Replace(promptTemplate)

	var r reply
	if _, err := ai.GenerateJSON(ctx, e.generator, ai.JSONRequest{
		System: systemPrompt,
		Prompt: prompt,
		Schema: replySchema,
	}, &r); err != nil {
		return model.ScoreBreakdown{}, err
	}

	b := model.ScoreBreakdown{
		Keyword:         clamp(r.Keyword, maxKeyword),
		ActionVerb:      clamp(r.ActionVerb, maxActionVerb),
		Achievement:     clamp(r.Achievement, maxAchievement),
		Format:          clamp(r.Format, maxFormat),
		MissingKeywords: orEmpty(r.MissingKeywords),
		Suggestions:     orEmpty(r.Suggestions),
		VerbsFound:      orEmpty(r.VerbsFound),
		VerbsMissing:    orEmpty(r.VerbsMissing),
		Strengths:       r.Strengths,
		Weaknesses:      r.Weaknesses,
		Source:          model.SourceGenerative,
	}
	b.Total = b.Keyword + b.ActionVerb + b.Achievement + b.Format

	return b, nil
}

func clamp(v float64, limit int) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Min(float64(limit), math.Max(0, v))))
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
