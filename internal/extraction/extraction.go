package extraction

import (
	"context"
	_ "embed"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/ai"
	"github.com/spigell/career-pilot/internal/model"
	"github.com/spigell/career-pilot/internal/utils"
)

// Résumé text sent to the generator is cut to this many runes.
const promptTextLimit = 4000

const systemPrompt = "You are an expert resume parser. Extract structured information from resumes accurately. " +
	"Be thorough and capture all skills, including soft skills and tools."

//go:embed prompt.md
var promptTemplate string

//go:embed schema.json
var schemaDocument string

var replySchema = ai.MustSchema(schemaDocument)

// Result is the structured data pulled out of a résumé.
type Result struct {
	RawText              string
	Skills               []string
	Experience           []model.ExperienceEntry
	Education            []model.EducationEntry
	TotalExperienceYears float64
	Summary              string
	Source               string
}

type reply struct {
	Skills               []string                `mapstructure:"skills"`
	Experience           []model.ExperienceEntry `mapstructure:"experience"`
	Education            []model.EducationEntry  `mapstructure:"education"`
	TotalExperienceYears float64                 `mapstructure:"total_experience_years"`
	Summary              string                  `mapstructure:"summary"`
}

// Engine turns résumé text into structured candidate data.
type Engine struct {
	generator ai.Generator
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an Engine. A nil generator makes every call use the rule extractor.
func New(generator ai.Generator, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{generator: generator, logger: logger, now: time.Now}
}

// Extract parses text. The generator reply is preferred and its skills are
// merged with the vocabulary scan; any failure discards it in favour of the
// rule extractor. The returned error is the generator failure, if one happened.
func (e *Engine) Extract(ctx context.Context, text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return empty(text), nil
	}

	var primary func(context.Context) (Result, error)
	if e.generator != nil {
		primary = func(ctx context.Context) (Result, error) {
			return e.generate(ctx, text)
		}
	}

	outcome := ai.Fallback(ctx, primary, nil, func() Result {
		return Rules(text, e.now())
	})
	if outcome.Err != nil {
		e.logger.Warn("generative extraction failed, using rules", zap.Error(outcome.Err))
	}

	e.logger.Debug("extraction finished",
		zap.String("source", outcome.Value.Source),
		zap.Int("skills", len(outcome.Value.Skills)),
		zap.Int("experience_entries", len(outcome.Value.Experience)),
		zap.Int("education_entries", len(outcome.Value.Education)),
	)

	return outcome.Value, outcome.Err
}

func (e *Engine) generate(ctx context.Context, text string) (Result, error) {
	var r reply
	prompt := strings.ReplaceAll(promptTemplate, "{{RESUME_TEXT}}", utils.TruncateRunes(text, promptTextLimit))
	if _, err := ai.GenerateJSON(ctx, e.generator, ai.JSONRequest{
		System: systemPrompt,
		Prompt: prompt,
		Schema: replySchema,
	}, &r); err != nil {
		return Result{}, err
	}

	years := r.TotalExperienceYears
	if years < 0 {
		years = 0
	}

	result := Result{
		RawText:              text,
		Skills:               mergeSkills(r.Skills, ScanSkills(text)),
		Experience:           r.Experience,
		Education:            r.Education,
		TotalExperienceYears: years,
		Summary:              strings.TrimSpace(r.Summary),
		Source:               model.SourceGenerative,
	}
	if result.Experience == nil {
		result.Experience = []model.ExperienceEntry{}
	}
	if result.Education == nil {
		result.Education = []model.EducationEntry{}
	}

	return result, nil
}

func empty(text string) Result {
	return Result{
		RawText:    text,
		Skills:     []string{},
		Experience: []model.ExperienceEntry{},
		Education:  []model.EducationEntry{},
		Source:     model.SourceRules,
	}
}
