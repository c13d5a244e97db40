package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/roadmap"
)

const dateLayout = "2006-01-02"

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Build a day-by-day job search plan",
	Run: func(cmd *cobra.Command, _ []string) {
		planRoadmap(cmd)
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Record progress for a day of the stored plan",
	Run: func(cmd *cobra.Command, _ []string) {
		recordProgress(cmd)
	},
}

var referralCmd = &cobra.Command{
	Use:   "referral",
	Short: "Draft a referral request message",
	Run: func(cmd *cobra.Command, _ []string) {
		draftReferral(cmd)
	},
}

func init() {
	rootCmd.AddCommand(roadmapCmd)
	roadmapCmd.AddCommand(progressCmd, referralCmd)

	roadmapCmd.PersistentFlags().StringP("candidate", "c", "", "candidate id; the latest stored run provides role and skills")
	roadmapCmd.PersistentFlags().String("role", "", "target role (overrides the stored one)")
	roadmapCmd.PersistentFlags().StringSlice("skills", nil, "skills (override the stored ones)")

	roadmapCmd.Flags().Int("days", 0, "plan length in days")
	roadmapCmd.Flags().String("start", "", "first day of the plan, YYYY-MM-DD (default is today)")

	progressCmd.Flags().String("date", "", "day to update, YYYY-MM-DD (default is today)")
	progressCmd.Flags().Int("jobs", -1, "applications sent")
	progressCmd.Flags().Int("referrals", -1, "referral requests sent")
	progressCmd.Flags().Int("recruiters", -1, "recruiters contacted")

	referralCmd.Flags().String("company", "", "company to write to")
	referralCmd.Flags().String("name", "", "your name")
	referralCmd.Flags().String("degree", "", "your degree")
}

// profile is what the roadmap commands know about a candidate.
type profile struct {
	role            string
	skills          []string
	experienceYears float64
	degree          string
}

// loadProfile takes the latest stored run of the candidate and applies flag overrides.
func (a *application) loadProfile(ctx context.Context, cmd *cobra.Command) profile {
	var p profile

	candidate, _ := cmd.Flags().GetString("candidate")
	if candidate != "" && a.store != nil {
		records, err := a.store.ListByCandidate(ctx, candidate, 1)
		if err != nil {
			a.logger.Fatal("loading stored runs", zap.Error(err))
		}
		if len(records) > 0 {
			state, err := a.store.Get(ctx, records[0].RunID)
			if err != nil {
				a.logger.Fatal("loading the latest run", zap.Error(err))
			}
			p.role = state.Recommendation.SelectedRole
			p.skills = state.Extraction.Skills
			p.experienceYears = state.Extraction.TotalExperienceYears
			if len(state.Extraction.Education) > 0 {
				p.degree = state.Extraction.Education[0].Degree
			}
		}
	}

	if role, _ := cmd.Flags().GetString("role"); role != "" {
		p.role = role
	}
	if skills, _ := cmd.Flags().GetStringSlice("skills"); len(skills) > 0 {
		p.skills = skills
	}
	if p.role == "" {
		p.role = roadmap.DefaultRole
	}
	return p
}

func planRoadmap(cmd *cobra.Command) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.Close()

	p := a.loadProfile(ctx, cmd)

	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = a.config.roadmapDays()
	}
	start, err := parseDate(cmd, "start")
	if err != nil {
		a.logger.Fatal("parsing --start", zap.Error(err))
	}

	plan, err := a.planner.Plan(ctx, roadmap.Request{
		Role:            p.role,
		Skills:          p.skills,
		ExperienceYears: p.experienceYears,
		Days:            days,
		Start:           start,
	})
	if err != nil {
		a.logger.Warn("roadmap built from the template", zap.Error(err))
	}

	if candidate, _ := cmd.Flags().GetString("candidate"); candidate != "" && a.store != nil {
		if err := a.store.SaveRoadmap(ctx, candidate, plan); err != nil {
			a.logger.Fatal("saving the roadmap", zap.Error(err))
		}
	}

	printRoadmap(a.logger, plan)
}

func recordProgress(cmd *cobra.Command) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.Close()

	candidate, _ := cmd.Flags().GetString("candidate")
	if candidate == "" || a.store == nil {
		a.logger.Fatal("progress needs --candidate and --database")
	}

	date, err := parseDate(cmd, "date")
	if err != nil {
		a.logger.Fatal("parsing --date", zap.Error(err))
	}
	if date.IsZero() {
		date = time.Now()
	}

	day, err := a.store.UpdateProgress(ctx, candidate, date, roadmap.Progress{
		JobsApplied:         counter(cmd, "jobs"),
		ReferralsSent:       counter(cmd, "referrals"),
		RecruitersConnected: counter(cmd, "recruiters"),
	})
	if err != nil {
		a.logger.Fatal("recording progress", zap.Error(err))
	}

	printRoadmap(a.logger, []roadmap.Day{day})
}

func draftReferral(cmd *cobra.Command) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.Close()

	p := a.loadProfile(ctx, cmd)
	company, _ := cmd.Flags().GetString("company")
	name, _ := cmd.Flags().GetString("name")
	if degree, _ := cmd.Flags().GetString("degree"); degree != "" {
		p.degree = degree
	}

	msg, err := a.planner.Referral(ctx, roadmap.ReferralRequest{
		Role:    p.role,
		Company: company,
		Name:    name,
		Skills:  p.skills,
		Degree:  p.degree,
	})
	if err != nil && msg.Message == "" {
		a.logger.Fatal("drafting the referral", zap.Error(err))
	}
	if err != nil {
		a.logger.Warn("referral drafted from the template", zap.Error(err))
	}

	fmt.Printf("Subject: %s\n\n%s\n", msg.Subject, msg.Message)
}

func parseDate(cmd *cobra.Command, flag string) (time.Time, error) {
	value, _ := cmd.Flags().GetString(flag)
	if value = strings.TrimSpace(value); value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(dateLayout, value, time.Local)
}

// counter returns nil for flags left at the -1 sentinel.
func counter(cmd *cobra.Command, flag string) *int {
	v, _ := cmd.Flags().GetInt(flag)
	if v < 0 {
		return nil
	}
	return &v
}
