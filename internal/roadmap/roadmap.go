// Package roadmap builds a day-by-day job search plan for a target role.
package roadmap

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/ai"
	"github.com/spigell/career-pilot/internal/model"
)

const (
	// DefaultDays is the plan length used when a request does not set one.
	DefaultDays = 7
	// DefaultRole is planned for when no role was selected.
	DefaultRole = "Software Developer"

	promptSkillLimit = 10
	dateLayout       = "2006-01-02"

	defaultJobs       = 5
	defaultReferrals  = 3
	defaultRecruiters = 2
)

const planSystemPrompt = "You are a career coach creating a structured daily job search plan. " +
	"Be realistic about what a fresher can achieve in a day."

//go:embed plan_prompt.md
var planPrompt string

//go:embed plan_schema.json
var planSchemaDocument string

var planSchema = ai.MustSchema(planSchemaDocument)

// Day is one entry of the plan together with the progress made on it.
type Day struct {
	Date                time.Time `json:"date"`
	Focus               string    `json:"focus"`
	Tasks               []string  `json:"tasks"`
	JobsToApply         int       `json:"jobs_to_apply"`
	ReferralsToSend     int       `json:"referrals_to_send"`
	RecruitersToConnect int       `json:"recruiters_to_connect"`
	JobsApplied         int       `json:"jobs_applied"`
	ReferralsSent       int       `json:"referrals_sent"`
	RecruitersConnected int       `json:"recruiters_connected"`
	Completed           bool      `json:"is_completed"`
	Source              string    `json:"source"`
}

// Progress carries counters reported for a day. Nil fields are left unchanged.
type Progress struct {
	JobsApplied         *int
	ReferralsSent       *int
	RecruitersConnected *int
}

// Record applies p and marks the day completed once every target is met.
func (d *Day) Record(p Progress) {
	if p.JobsApplied != nil {
		d.JobsApplied = *p.JobsApplied
	}
	if p.ReferralsSent != nil {
		d.ReferralsSent = *p.ReferralsSent
	}
	if p.RecruitersConnected != nil {
		d.RecruitersConnected = *p.RecruitersConnected
	}
	d.Completed = d.JobsApplied >= d.JobsToApply &&
		d.ReferralsSent >= d.ReferralsToSend &&
		d.RecruitersConnected >= d.RecruitersToConnect
}

// DateString returns the day formatted as YYYY-MM-DD.
func (d Day) DateString() string {
	return d.Date.Format(dateLayout)
}

// Request describes the plan to build.
type Request struct {
	Role            string
	Skills          []string
	ExperienceYears float64
	Days            int
	Start           time.Time
}

type replyDay struct {
	Focus      string   `mapstructure:"focus"`
	Jobs       *int     `mapstructure:"jobs_to_apply"`
	Referrals  *int     `mapstructure:"referrals_to_send"`
	Recruiters *int     `mapstructure:"recruiters_to_connect"`
	Tasks      []string `mapstructure:"tasks"`
}

// Planner builds plans with the generator and falls back to the template.
type Planner struct {
	generator ai.Generator
	logger    *zap.Logger
	now       func() time.Time
}

// New creates a Planner. A nil generator always yields the template plan.
func New(generator ai.Generator, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{generator: generator, logger: logger, now: time.Now}
}

// Plan returns req.Days entries starting at req.Start. The generator is asked
// only when skills are known; dates are always assigned locally.
func (p *Planner) Plan(ctx context.Context, req Request) ([]Day, error) {
	req = p.withDefaults(req)

	var primary func(context.Context) ([]Day, error)
	if p.generator != nil && len(req.Skills) > 0 {
		primary = func(ctx context.Context) ([]Day, error) {
			return p.generate(ctx, req)
		}
	}

	outcome := ai.Fallback(ctx, primary, nonEmpty, func() []Day {
		return Template(req.Role, req.Days, req.Start)
	})
	if outcome.Err != nil {
		p.logger.Warn("generative roadmap failed, using template", zap.String("role", req.Role), zap.Error(outcome.Err))
	}

	return outcome.Value, outcome.Err
}

func (p *Planner) withDefaults(req Request) Request {
	req.Role = strings.TrimSpace(req.Role)
	if req.Role == "" {
		req.Role = DefaultRole
	}
	if req.Days <= 0 {
		req.Days = DefaultDays
	}
	if req.Start.IsZero() {
		req.Start = p.now()
	}
	y, m, d := req.Start.Date()
	req.Start = time.Date(y, m, d, 0, 0, 0, 0, req.Start.Location())
	return req
}

func nonEmpty(days []Day) error {
	if len(days) == 0 {
		return fmt.Errorf("roadmap: %w", ai.ErrEmptyResult)
	}
	return nil
}

func (p *Planner) generate(ctx context.Context, req Request) ([]Day, error) {
	skills := req.Skills
	if len(skills) > promptSkillLimit {
		skills = skills[:promptSkillLimit]
	}

	prompt := strings.NewReplacer(
		"{{DAYS}}", strconv.Itoa(req.Days),
		"{{ROLE}}", req.Role,
		"{{SKILLS}}", strings.Join(skills, ", "),
		"{{EXPERIENCE}}", strconv.FormatFloat(req.ExperienceYears, 'f', -1, 64),
	).Replace(planPrompt)

	var reply []replyDay
	if _, err := ai.GenerateJSON(ctx, p.generator, ai.JSONRequest{
		System: planSystemPrompt,
		Prompt: prompt,
		Schema: planSchema,
	}, &reply); err != nil {
		return nil, err
	}

	if len(reply) > req.Days {
		reply = reply[:req.Days]
	}

	days := make([]Day, 0, len(reply))
	for i, item := range reply {
		focus := strings.TrimSpace(item.Focus)
		if focus == "" {
			focus = fmt.Sprintf("Day %d", i+1)
		}
		tasks := item.Tasks
		if tasks == nil {
			tasks = []string{}
		}
		days = append(days, Day{
			Date:                req.Start.AddDate(0, 0, i),
			Focus:               focus,
			Tasks:               tasks,
			JobsToApply:         valueOr(item.Jobs, defaultJobs),
			ReferralsToSend:     valueOr(item.Referrals, defaultReferrals),
			RecruitersToConnect: valueOr(item.Recruiters, defaultRecruiters),
			Source:              model.SourceGenerative,
		})
	}

	return days, nil
}

func valueOr(v *int, fallback int) int {
	if v == nil || *v < 0 {
		return fallback
	}
	return *v
}

// ErrDayNotFound is returned when progress is reported for a date outside the plan.
var ErrDayNotFound = errors.New("roadmap day not found")

// RecordProgress applies p to the plan entry for date.
func RecordProgress(days []Day, date time.Time, p Progress) (Day, error) {
	want := date.Format(dateLayout)
	for i := range days {
		if days[i].DateString() == want {
			days[i].Record(p)
			return days[i], nil
		}
	}
	return Day{}, fmt.Errorf("%s: %w", want, ErrDayNotFound)
}
