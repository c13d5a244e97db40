package ranking

import (
	"fmt"
	"testing"

	"github.com/spigell/career-pilot/internal/model"
)

func TestSeniorityScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		description string
		expect      float64
	}{
		{name: "junior marker wins over senior", description: "Senior mentors support this Entry Level role", expect: 20},
		{name: "only senior", description: "We need a Senior engineer", expect: 0},
		{name: "years of experience", description: "Requires 5+ years of Go", expect: 0},
		{name: "no markers", description: "Build APIs", expect: 20},
		{name: "graduate programme", description: "Lead projects as part of our graduate programme", expect: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SeniorityScore(tt.description); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestLocationScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		posting    model.JobCandidate
		preference string
		expect     float64
	}{
		{name: "substring match", posting: model.JobCandidate{Location: "Bengaluru, India"}, preference: "bengaluru", expect: 20},
		{name: "remote fallback", posting: model.JobCandidate{Location: "Berlin", Remote: true}, preference: "Pune", expect: 15},
		{name: "no match", posting: model.JobCandidate{Location: "Berlin"}, preference: "Pune", expect: 0},
		{name: "no preference", posting: model.JobCandidate{Location: "Pune", Remote: true}, preference: " ", expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := LocationScore(tt.posting, tt.preference); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestRank(t *testing.T) {
	t.Parallel()

	postings := []model.JobCandidate{
		{ExternalID: "senior", Title: "Senior Python Developer", Description: "senior role, python and sql", Location: "Pune"},
		{ExternalID: "junior", Title: "Junior Data Analyst", Description: "entry level, python, sql, excel", Location: "Remote", Remote: true},
		{ExternalID: "partial", Title: "Analyst", Description: "excel reporting", Location: "Pune"},
	}
	skills := []string{"Python", "sql", "excel", "python"}

	ranked := Rank(postings, skills, "pune")
	if len(ranked) != 3 {
		t.Fatalf("expected 3 results, got %d", len(ranked))
	}

	order := []string{ranked[0].ExternalID, ranked[1].ExternalID, ranked[2].ExternalID}
	if fmt.Sprint(order) != "[junior senior partial]" {
		t.Fatalf("unexpected order: %v", order)
	}

	junior := ranked[0]
	if junior.Details.Skill != 60 || junior.Details.Location != 15 || junior.Details.Seniority != 20 {
		t.Fatalf("unexpected junior details: %+v", junior.Details)
	}
	if junior.MatchScore != 95 {
		t.Fatalf("expected 95, got %v", junior.MatchScore)
	}

	senior := ranked[1]
	if senior.Details.Skill != 40 || senior.Details.Seniority != 0 || senior.MatchScore != 60 {
		t.Fatalf("unexpected senior score: %+v", senior)
	}

	partial := ranked[2]
	if partial.Details.Skill != 20 || partial.MatchScore != 60 {
		t.Fatalf("unexpected partial score: %+v", partial)
	}

	if postings[0].MatchScore != 0 {
		t.Fatal("input postings must not be modified")
	}
}

func TestRankRoundsAndTruncates(t *testing.T) {
	t.Parallel()

	postings := make([]model.JobCandidate, 0, 25)
	for i := 0; i < 25; i++ {
		postings = append(postings, model.JobCandidate{ExternalID: fmt.Sprint(i), Description: "go"})
	}
	postings[24].Description = "go rust"

	ranked := Rank(postings, []string{"go", "rust", "java"}, "")
	if len(ranked) != MaxResults {
		t.Fatalf("expected %d results, got %d", MaxResults, len(ranked))
	}
	if ranked[0].ExternalID != "24" || ranked[0].MatchScore != 60 {
		t.Fatalf("expected best posting first, got %+v", ranked[0])
	}
	if ranked[1].Details.Skill != 20 || ranked[1].ExternalID != "0" {
		t.Fatalf("expected stable order and rounded skill score, got %+v", ranked[1])
	}

	if got := Rank(nil, nil, ""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}
