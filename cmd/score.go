package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume]",
	Short: "Score a resume against a role the way an ATS would",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "path to the resume (.pdf, .txt or .md)")
	scoreCmd.Flags().String("role", "", "target role; without it the generic keyword list is used")
}

func score(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.Close()

	path := resumePath(cmd, args)
	if path == "" {
		a.logger.Fatal("resume path is required", zap.String("hint", "pass it as an argument or with --resume"))
	}

	text, err := a.documents.Text(ctx, path)
	if err != nil {
		a.logger.Fatal("reading the resume", zap.Error(err))
	}

	role, _ := cmd.Flags().GetString("role")
	breakdown, err := a.scorer.Score(ctx, text, role)
	if err != nil {
		a.logger.Warn("generative scoring failed; rule score is shown", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(breakdown, "", "  ")
	fmt.Println(string(pretty))
}
