package ats

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/career-pilot/internal/model"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) GenerateContent(_ context.Context, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const analystResume = `Summary
Built and designed a dashboard with SQL and Python. Improved reporting for 200 users and cut costs by 30%.
Experience
Education`

func TestRulesScoresAnalystResume(t *testing.T) {
	t.Parallel()

	got := Rules(analystResume, "Data Analyst")

	if got.Keyword != 16 || got.ActionVerb != 9 || got.Achievement != 10 || got.Format != 9 {
		t.Fatalf("unexpected sub-scores: %+v", got)
	}
	if got.Total != 44 {
		t.Fatalf("expected total 44, got %d", got.Total)
	}
	if err := got.Check(); err != nil {
		t.Fatalf("breakdown check failed: %v", err)
	}

	wantMissing := []string{"analysis", "excel", "visualization", "insights", "metrics", "data"}
	if !reflect.DeepEqual(got.MissingKeywords, wantMissing) {
		t.Fatalf("unexpected missing keywords: %v", got.MissingKeywords)
	}
	if !reflect.DeepEqual(got.VerbsFound, []string{"built", "designed", "improved"}) {
		t.Fatalf("unexpected verbs found: %v", got.VerbsFound)
	}

	wantSuggestions := []string{
		"Add more role-specific keywords: analysis, excel, visualization, insights, metrics",
		"Use more action verbs like: achieved, analyzed, collaborated, created, delivered",
		SuggestTooShort,
	}
	if !reflect.DeepEqual(got.Suggestions, wantSuggestions) {
		t.Fatalf("unexpected suggestions: %q", got.Suggestions)
	}
	if got.Source != model.SourceRules {
		t.Fatalf("unexpected source: %q", got.Source)
	}
}

func TestRulesIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, role := range []string{"", "Backend Developer", "data scientist", "Astronaut"} {
		first := Rules(analystResume, role)
		second := Rules(analystResume, role)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("scoring %q twice differed: %+v vs %+v", role, first, second)
		}
		if err := first.Check(); err != nil {
			t.Fatalf("breakdown check failed for %q: %v", role, err)
		}
	}
}

func TestRulesLengthBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		words      int
		format     int
		suggestion string
	}{
		{name: "too short", words: 50, format: 3, suggestion: SuggestTooShort},
		{name: "in band", words: 400, format: 10},
		{name: "too long", words: 900, format: 5, suggestion: SuggestTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			got := Rules(text, "")
			if got.Format != tt.format {
				t.Fatalf("expected format %d, got %d", tt.format, got.Format)
			}
			if got.Keyword != 0 || got.ActionVerb != 0 || got.Achievement != 0 {
				t.Fatalf("expected zero content scores, got %+v", got)
			}
			if !contains(got.Suggestions, SuggestHeaders) || !contains(got.Suggestions, SuggestQuantify) {
				t.Fatalf("expected header and quantify suggestions: %q", got.Suggestions)
			}
			if tt.suggestion != "" && !contains(got.Suggestions, tt.suggestion) {
				t.Fatalf("expected %q in %q", tt.suggestion, got.Suggestions)
			}
			if tt.suggestion == "" && (contains(got.Suggestions, SuggestTooShort) || contains(got.Suggestions, SuggestTooLong)) {
				t.Fatalf("unexpected length suggestion: %q", got.Suggestions)
			}
		})
	}
}

func TestRulesCapsScores(t *testing.T) {
	t.Parallel()

	text := strings.Join(actionVerbs, " ") + " " + strings.Repeat("10% ", 10) + strings.Join(defaultKeywords, " ") +
		" experience education skills projects summary"
	got := Rules(text, "")
	if got.Keyword != 40 || got.ActionVerb != 20 || got.Achievement != 20 {
		t.Fatalf("expected capped scores, got %+v", got)
	}
	if got.Format != 13 {
		t.Fatalf("expected 3 length points plus 10 header points, got %d", got.Format)
	}
	if len(got.VerbsMissing) != 0 || len(got.MissingKeywords) != 0 {
		t.Fatalf("expected nothing missing, got %+v", got)
	}
}

func TestScoreUsesGeneratorWithRole(t *testing.T) {
	gen := &stubGenerator{response: `{
		"score": 99,
		"keyword_score": 55,
		"action_verb_score": "12",
		"achievement_score": -3,
		"format_score": 15.4,
		"suggestions": ["Add a projects section"],
		"strengths": ["Clear layout"]
	}`}

	got, err := New(gen, nil).Score(context.Background(), analystResume, "Data Analyst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Keyword != 40 || got.ActionVerb != 12 || got.Achievement != 0 || got.Format != 15 {
		t.Fatalf("expected clamped sub-scores, got %+v", got)
	}
	if got.Total != 67 {
		t.Fatalf("expected recomputed total 67, got %d", got.Total)
	}
	if got.Source != model.SourceGenerative {
		t.Fatalf("unexpected source: %q", got.Source)
	}
	if got.MissingKeywords == nil || got.VerbsFound == nil {
		t.Fatal("expected empty lists instead of nil")
	}
}

func TestScoreWithoutRoleSkipsGenerator(t *testing.T) {
	gen := &stubGenerator{response: `{"keyword_score": 1, "achievement_score": 1, "format_score": 1}`}

	got, err := New(gen, nil).Score(context.Background(), analystResume, "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected no generator call, got %d", gen.calls)
	}
	if !reflect.DeepEqual(got, Rules(analystResume, "")) {
		t.Fatalf("expected rule scoring, got %+v", got)
	}
}

func TestScoreFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		gen  *stubGenerator
	}{
		{name: "transport error", gen: &stubGenerator{err: errors.New("deadline exceeded")}},
		{name: "missing fields", gen: &stubGenerator{response: `{"score": 80}`}},
		{name: "not json", gen: &stubGenerator{response: "Great resume!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := New(tt.gen, nil).Score(context.Background(), analystResume, "Data Analyst")
			if err == nil {
				t.Fatal("expected generator failure to be reported")
			}
			if !reflect.DeepEqual(got, Rules(analystResume, "Data Analyst")) {
				t.Fatalf("expected rule scoring, got %+v", got)
			}
		})
	}
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
