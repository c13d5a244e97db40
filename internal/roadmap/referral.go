package roadmap

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/ai"
	"github.com/spigell/career-pilot/internal/model"
)

const (
	backgroundSkillLimit = 5
	referralSystemPrompt = "You are a career coach helping freshers write compelling cold outreach messages. " +
		"Messages should be concise (under 150 words), professional, and show genuine interest."
)

//go:embed referral_prompt.md
var referralPrompt string

//go:embed referral_schema.json
var referralSchemaDocument string

var referralSchema = ai.MustSchema(referralSchemaDocument)

// ReferralRequest describes the candidate and the position a message is drafted for.
type ReferralRequest struct {
	Role    string
	Company string
	Name    string
	Skills  []string
	Degree  string
}

// Referral is a drafted outreach message.
type Referral struct {
	Subject string `json:"subject_line" mapstructure:"subject_line"`
	Message string `json:"message" mapstructure:"message"`
	Source  string `json:"source" mapstructure:"-"`
}

// Background renders the one-line candidate description used in messages.
func (r ReferralRequest) Background() string {
	background := strings.TrimSpace(r.Name)
	if background == "" {
		background = "A recent graduate"
	}
	if len(r.Skills) > 0 {
		skills := r.Skills
		if len(skills) > backgroundSkillLimit {
			skills = skills[:backgroundSkillLimit]
		}
		background += ", skilled in " + strings.Join(skills, ", ")
	}
	if degree := strings.TrimSpace(r.Degree); degree != "" {
		background += ", " + degree
	}
	return background
}

// Referral drafts a referral request for req. Role and company are required.
// A generator failure is returned next to the template message.
func (p *Planner) Referral(ctx context.Context, req ReferralRequest) (Referral, error) {
	req.Role = strings.TrimSpace(req.Role)
	req.Company = strings.TrimSpace(req.Company)
	if req.Role == "" || req.Company == "" {
		return Referral{}, errors.New("role and company are required")
	}

	var primary func(context.Context) (Referral, error)
	if p.generator != nil {
		primary = func(ctx context.Context) (Referral, error) {
			return p.draft(ctx, req)
		}
	}

	outcome := ai.Fallback(ctx, primary, hasMessage, func() Referral {
		return ReferralTemplate(req)
	})
	if outcome.Err != nil {
		p.logger.Warn("generative referral failed, using template", zap.String("company", req.Company), zap.Error(outcome.Err))
	}
	return outcome.Value, outcome.Err
}

func hasMessage(r Referral) error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("referral: %w", ai.ErrEmptyResult)
	}
	return nil
}

func (p *Planner) draft(ctx context.Context, req ReferralRequest) (Referral, error) {
	prompt := strings.NewReplacer(
		"{{ROLE}}", req.Role,
		"{{COMPANY}}", req.Company,
		"{{BACKGROUND}}", req.Background(),
	).Replace(referralPrompt)

	var r Referral
	if _, err := ai.GenerateJSON(ctx, p.generator, ai.JSONRequest{
		System: referralSystemPrompt,
		Prompt: prompt,
		Schema: referralSchema,
	}, &r); err != nil {
		return Referral{}, err
	}
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
	r.Source = model.SourceGenerative
	return r, nil
}

// ReferralTemplate is the fixed outreach message.
func ReferralTemplate(req ReferralRequest) Referral {
	return Referral{
		Subject: fmt.Sprintf("Referral request: %s at %s", req.Role, req.Company),
		Message: fmt.Sprintf("Hi,\n\nI came across the %s opening at %s and would love to be considered. "+
			"About me: %s.\n\nWould you be open to referring me or pointing me to the right person? "+
			"I am happy to share my resume and keep it brief.\n\nThank you for your time!",
			req.Role, req.Company, req.Background()),
		Source: model.SourceRules,
	}
}
