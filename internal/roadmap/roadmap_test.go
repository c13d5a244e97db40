package roadmap

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/model"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, _, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

var monday = time.Date(2025, time.March, 3, 15, 30, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func TestTemplate(t *testing.T) {
	days := Template("Data Analyst", 7, monday)
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}

	wantJobs := []int{6, 7, 5, 6, 7, 3, 3}
	wantFocus := []string{"Mass Apply Day", "Networking Day", "Skill Polish Day", "LinkedIn Outreach Day", "Portfolio Day", "Weekend Review", "Weekend Review"}
	for i, day := range days {
		if day.JobsToApply != wantJobs[i] {
			t.Fatalf("day %d: expected %d jobs, got %d", i+1, wantJobs[i], day.JobsToApply)
		}
		if day.Focus != wantFocus[i] {
			t.Fatalf("day %d: expected focus %q, got %q", i+1, wantFocus[i], day.Focus)
		}
		if day.Source != model.SourceRules {
			t.Fatalf("day %d: unexpected source %q", i+1, day.Source)
		}
	}

	if days[0].ReferralsToSend != 3 || days[0].RecruitersToConnect != 2 || len(days[0].Tasks) != 5 {
		t.Fatalf("unexpected weekday targets: %+v", days[0])
	}
	if !strings.Contains(days[0].Tasks[3], "Data Analyst") {
		t.Fatalf("expected rotating task to mention the role, got %v", days[0].Tasks)
	}
	if days[5].ReferralsToSend != 1 || days[5].RecruitersToConnect != 1 || len(days[5].Tasks) != 3 {
		t.Fatalf("unexpected weekend targets: %+v", days[5])
	}
	if days[6].DateString() != "2025-03-09" {
		t.Fatalf("unexpected last date: %s", days[6].DateString())
	}

	if got := Template("Data Analyst", 0, monday); len(got) != 0 {
		t.Fatalf("expected empty plan, got %d days", len(got))
	}
}

func TestPlanUsesGenerator(t *testing.T) {
	gen := &stubGenerator{response: "```json\n" + `[
		{"day": 1, "focus": "Apply", "jobs_to_apply": 8, "referrals_to_send": 2, "recruiters_to_connect": 1, "tasks": ["a", "b"]},
		{"day": 2, "tasks": null},
		{"day": 3, "focus": "Extra"}
	]` + "\n```"}
	planner := New(gen, zap.NewNop())

	days, err := planner.Plan(context.Background(), Request{
		Role:   "Data Analyst",
		Skills: []string{"python", "sql"},
		Days:   2,
		Start:  monday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected plan to be cut to 2 days, got %d", len(days))
	}
	if days[0].JobsToApply != 8 || days[0].Focus != "Apply" || days[0].DateString() != "2025-03-03" {
		t.Fatalf("unexpected first day: %+v", days[0])
	}
	if days[1].Focus != "Day 2" || days[1].JobsToApply != 5 || days[1].ReferralsToSend != 3 || days[1].RecruitersToConnect != 2 {
		t.Fatalf("expected defaults on second day: %+v", days[1])
	}
	if days[1].Tasks == nil || days[1].Source != model.SourceGenerative {
		t.Fatalf("unexpected second day: %+v", days[1])
	}
	if !strings.Contains(gen.prompts[0], "2-day job search action plan") || !strings.Contains(gen.prompts[0], "python, sql") {
		t.Fatalf("unexpected prompt: %s", gen.prompts[0])
	}
}

func TestPlanFallsBackToTemplate(t *testing.T) {
	tests := []struct {
		name      string
		gen       *stubGenerator
		skills    []string
		expectErr bool
	}{
		{name: "transport error", gen: &stubGenerator{err: errors.New("unavailable")}, skills: []string{"go"}, expectErr: true},
		{name: "empty plan", gen: &stubGenerator{response: "[]"}, skills: []string{"go"}, expectErr: true},
		{name: "negative targets", gen: &stubGenerator{response: `[{"jobs_to_apply": -1}]`}, skills: []string{"go"}, expectErr: true},
		{name: "no skills", gen: &stubGenerator{response: `[{"focus": "x"}]`}, expectErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planner := New(tt.gen, zap.NewNop())
			days, err := planner.Plan(context.Background(), Request{Skills: tt.skills, Days: 3, Start: monday})
			if (err != nil) != tt.expectErr {
				t.Fatalf("expected error %v, got %v", tt.expectErr, err)
			}
			if len(days) != 3 || days[0].Source != model.SourceRules {
				t.Fatalf("expected template plan, got %+v", days)
			}
			if !strings.Contains(days[0].Tasks[0], DefaultRole) {
				t.Fatalf("expected default role in tasks, got %v", days[0].Tasks)
			}
			if len(tt.skills) == 0 && len(tt.gen.prompts) != 0 {
				t.Fatal("generator must not be called without skills")
			}
		})
	}
}

func TestPlanDefaults(t *testing.T) {
	planner := New(nil, nil)
	planner.now = func() time.Time { return monday }

	days, err := planner.Plan(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != DefaultDays {
		t.Fatalf("expected %d days, got %d", DefaultDays, len(days))
	}
	if days[0].Date.Hour() != 0 || days[0].DateString() != "2025-03-03" {
		t.Fatalf("expected start truncated to the day, got %s", days[0].Date)
	}
}

func TestRecordProgress(t *testing.T) {
	days := Template("QA Engineer", 2, monday)

	day, err := RecordProgress(days, monday, Progress{JobsApplied: intPtr(6), ReferralsSent: intPtr(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Completed {
		t.Fatal("day must not be completed before recruiters target is met")
	}

	day, err = RecordProgress(days, monday, Progress{RecruitersConnected: intPtr(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !day.Completed || day.JobsApplied != 6 || !days[0].Completed {
		t.Fatalf("expected completed day with kept counters, got %+v", day)
	}

	day, _ = RecordProgress(days, monday, Progress{JobsApplied: intPtr(1)})
	if day.Completed {
		t.Fatal("lowering a counter must reopen the day")
	}

	if _, err := RecordProgress(days, monday.AddDate(0, 0, 10), Progress{}); !errors.Is(err, ErrDayNotFound) {
		t.Fatalf("expected ErrDayNotFound, got %v", err)
	}
}

func TestReferral(t *testing.T) {
	req := ReferralRequest{
		Role:    "Data Analyst",
		Company: "Acme",
		Name:    "Jane Doe",
		Skills:  []string{"python", "sql", "excel", "tableau", "pandas", "numpy"},
		Degree:  "B.Sc Statistics",
	}

	if got := req.Background(); got != "Jane Doe, skilled in python, sql, excel, tableau, pandas, B.Sc Statistics" {
		t.Fatalf("unexpected background: %q", got)
	}

	gen := &stubGenerator{response: `{"subject_line": " Hello ", "message": " Hi there "}`}
	ref, err := New(gen, zap.NewNop()).Referral(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Subject != "Hello" || ref.Message != "Hi there" || ref.Source != model.SourceGenerative {
		t.Fatalf("unexpected referral: %+v", ref)
	}
	if !strings.Contains(gen.prompts[0], "Company: Acme") {
		t.Fatalf("unexpected prompt: %s", gen.prompts[0])
	}

	gen = &stubGenerator{response: `{"message": ""}`}
	ref, err = New(gen, zap.NewNop()).Referral(context.Background(), req)
	if err == nil {
		t.Fatal("expected empty message to be reported")
	}
	if ref.Source != model.SourceRules || !strings.Contains(ref.Message, "Data Analyst opening at Acme") {
		t.Fatalf("expected template referral, got %+v", ref)
	}

	if _, err := New(nil, nil).Referral(context.Background(), ReferralRequest{Role: "x"}); err == nil {
		t.Fatal("expected error without company")
	}
}
