package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/export"
	"github.com/spigell/career-pilot/internal/model"
	"github.com/spigell/career-pilot/internal/pipeline"
	"github.com/spigell/career-pilot/internal/roadmap"
)

const (
	PromptAccept            = "Accept and exit"
	PromptReselect          = "Choose another role"
	PromptReportByCompanies = "Report by companies"
	PromptResultToFile      = "Dump result to file"
	PromptExportXLSX        = "Export to XLSX"
	PromptRoadmap           = "Build a daily roadmap"
	PromptReferral          = "Draft a referral message"
	PromptBack              = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Procced?",
	Items: []string{PromptAccept, PromptReselect, PromptReportByCompanies, PromptRoadmap, PromptReferral, PromptExportXLSX, PromptResultToFile},
}

var onboardCmd = &cobra.Command{
	Use:   "onboard [resume]",
	Short: "Analyse a resume: extract, recommend roles, search jobs and score it",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		onboard(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(onboardCmd)

	onboardCmd.Flags().StringP("resume", "r", "", "path to the resume (.pdf, .txt or .md)")
	onboardCmd.Flags().StringP("candidate", "c", "", "candidate id used for storage (default is the resume file name)")
	onboardCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for actions after the analysis")
	onboardCmd.Flags().String("xlsx", "", "write an XLSX report to this path")
	onboardCmd.Flags().Bool("dump", false, "dump the final state as JSON into a temp file")
}

// session keeps the interactive state of one onboarding.
type session struct {
	*application
	state   pipeline.State
	roadmap []roadmap.Day
}

func onboard(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.Close()

	path := resumePath(cmd, args)
	if path == "" {
		a.logger.Fatal("resume path is required", zap.String("hint", "pass it as an argument or with --resume"))
	}

	candidate, _ := cmd.Flags().GetString("candidate")
	s := &session{application: a}
	s.state = a.orchestrator.Run(ctx, pipeline.State{Input: pipeline.Input{
		CandidateID:        candidateID(candidate, path),
		DocumentPath:       path,
		LocationPreference: a.config.Location,
		RemotePreference:   a.config.Remote,
	}})
	s.summary()
	s.save(ctx)

	if xlsx, _ := cmd.Flags().GetString("xlsx"); xlsx != "" {
		if err := s.exportXLSX(xlsx); err != nil {
			a.logger.Fatal("exporting xlsx", zap.Error(err))
		}
	}
	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		if err := s.handleAction(ctx, PromptResultToFile); err != nil {
			a.logger.Fatal("dumping result", zap.Error(err))
		}
	}

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			a.logger.Fatal("exiting", zap.Error(err))
		}

		if err := s.handleAction(ctx, action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			a.logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *session) handleAction(ctx context.Context, action string) error {
	switch action {
	case PromptAccept:
		s.logger.Info("exiting", zap.String("reason", "result accepted"))
		return errExit
	case PromptReselect:
		return s.reselect(ctx)
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(export.ReportByCompany(s.state.Search.Jobs), "", "  ")
		s.logger.Info(string(pretty), zap.Int("jobs count", len(s.state.Search.Jobs)))
		return nil
	case PromptRoadmap:
		return s.buildRoadmap(ctx)
	case PromptReferral:
		return s.referral(ctx)
	case PromptExportXLSX:
		name := fmt.Sprintf("%s_%s.xlsx", app, s.state.Input.RunID)
		return s.exportXLSX(name)
	case PromptResultToFile:
		filename, err := export.DumpToTmpFile(s.state)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) reselect(ctx context.Context) error {
	matches := s.state.Recommendation.Matches
	if len(matches) == 0 {
		s.logger.Info("there are no recommended roles to choose from")
		return nil
	}

	items := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		items = append(items, roleLabel(m))
	}

	rolePrompt := promptui.Select{
		Label: "Choose a role and press ENTER",
		Items: append(items, PromptBack),
	}

	idx, selected, err := rolePrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	s.state = s.orchestrator.Reselect(ctx, s.state, matches[idx].Role)
	s.roadmap = nil
	s.summary()
	s.save(ctx)
	return nil
}

func (s *session) buildRoadmap(ctx context.Context) error {
	days, err := s.planner.Plan(ctx, roadmap.Request{
		Role:            s.state.Recommendation.SelectedRole,
		Skills:          s.state.Extraction.Skills,
		ExperienceYears: s.state.Extraction.TotalExperienceYears,
		Days:            s.config.roadmapDays(),
	})
	if err != nil {
		s.logger.Warn("roadmap built from the template", zap.Error(err))
	}
	s.roadmap = days

	if s.store != nil {
		if err := s.store.SaveRoadmap(ctx, s.state.Input.CandidateID, days); err != nil {
			return err
		}
	}

	printRoadmap(s.logger, days)
	return nil
}

func (s *session) referral(ctx context.Context) error {
	companyPrompt := promptui.Prompt{Label: "Company"}
	company, err := companyPrompt.Run()
	if err != nil {
		return err
	}

	req := roadmap.ReferralRequest{
		Role:    s.state.Recommendation.SelectedRole,
		Company: company,
		Name:    s.state.Input.CandidateID,
		Skills:  s.state.Extraction.Skills,
	}
	if req.Role == "" {
		req.Role = roadmap.DefaultRole
	}
	if len(s.state.Extraction.Education) > 0 {
		req.Degree = s.state.Extraction.Education[0].Degree
	}

	msg, err := s.planner.Referral(ctx, req)
	if err != nil && msg.Message == "" {
		return err
	}
	if err != nil {
		s.logger.Warn("referral drafted from the template", zap.Error(err))
	}

	fmt.Printf("Subject: %s\n\n%s\n", msg.Subject, msg.Message)
	return nil
}

func (s *session) exportXLSX(path string) error {
	written, err := export.Write(export.Report{State: s.state, Roadmap: s.roadmap}, path)
	if err != nil {
		return err
	}
	s.logger.Info("xlsx report written", zap.String("filename", written))
	return nil
}

func (s *session) save(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.state); err != nil {
		s.logger.Warn("saving the result", zap.Error(err))
		return
	}
	s.logger.Debug("result saved", zap.String("run_id", s.state.Input.RunID))
}

func (s *session) summary() {
	logSummary(s.logger, s.state)
}

func logSummary(logger *zap.Logger, state pipeline.State) {
	roles := make([]string, 0, len(state.Recommendation.Matches))
	for _, m := range state.Recommendation.Matches {
		roles = append(roles, roleLabel(m))
	}

	logger.Info("analysis result",
		zap.String("run_id", state.Input.RunID),
		zap.String("candidate_id", state.Input.CandidateID),
		zap.Strings("skills", state.Extraction.Skills),
		zap.Float64("experience_years", state.Extraction.TotalExperienceYears),
		zap.Strings("roles", roles),
		zap.String("selected_role", state.Recommendation.SelectedRole),
		zap.Int("jobs", len(state.Search.Jobs)),
		zap.Int("ats_total", state.Score.Total),
		zap.Strings("suggestions", state.Score.Suggestions),
	)

	for _, e := range state.Errors {
		logger.Warn("stage issue", zap.String("error", e))
	}
}

func printRoadmap(logger *zap.Logger, days []roadmap.Day) {
	for _, d := range days {
		logger.Info(d.Focus,
			zap.String("date", d.DateString()),
			zap.Int("applications", d.JobsToApply),
			zap.Int("referrals", d.ReferralsToSend),
			zap.Int("recruiters", d.RecruitersToConnect),
			zap.Strings("tasks", d.Tasks),
			zap.Bool("completed", d.Completed),
		)
	}
}

func roleLabel(m model.RoleMatch) string {
	return fmt.Sprintf("%s (%.1f)", m.Role, m.Score)
}

func resumePath(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	path, _ := cmd.Flags().GetString("resume")
	return strings.TrimSpace(path)
}

func candidateID(flag, path string) string {
	if id := strings.TrimSpace(flag); id != "" {
		return id
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c *Config) roadmapDays() int {
	if c == nil || c.Roadmap == nil {
		return roadmap.DefaultDays
	}
	return c.Roadmap.Days
}
