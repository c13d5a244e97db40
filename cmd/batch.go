package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/career-pilot/internal/export"
	"github.com/spigell/career-pilot/internal/pipeline"
)

var resumeExtensions = map[string]bool{".pdf": true, ".txt": true, ".md": true}

var batchCmd = &cobra.Command{
	Use:   "batch [resume...]",
	Short: "Run the analysis for many resumes concurrently",
	Run: func(cmd *cobra.Command, args []string) {
		batch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("dir", "", "analyse every .pdf, .txt and .md file in this directory")
	batchCmd.Flags().String("out", "", "write one JSON result per resume into this directory")
	batchCmd.Flags().IntP("concurrency", "p", 0, "how many resumes are analysed at once")

	viper.BindPFlag("concurrency", batchCmd.Flags().Lookup("concurrency"))
}

func batch(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	a := newApplication(ctx)
	defer a.Close()

	dir, _ := cmd.Flags().GetString("dir")
	paths, err := collectResumes(args, dir)
	if err != nil {
		a.logger.Fatal("collecting resumes", zap.Error(err))
	}
	if len(paths) == 0 {
		a.logger.Info("exiting", zap.String("reason", "no resumes given"))
		return
	}

	out, _ := cmd.Flags().GetString("out")
	if out != "" {
		if err := os.MkdirAll(out, 0o750); err != nil {
			a.logger.Fatal("creating the output directory", zap.Error(err))
		}
	}

	results, err := runBatch(ctx, a.orchestrator, paths, a.config.Location, a.config.Remote, a.config.Concurrency)
	if err != nil {
		a.logger.Fatal("batch run failed", zap.Error(err))
	}

	failed := 0
	for _, state := range results {
		logSummary(a.logger, state)
		if len(state.Errors) > 0 {
			failed++
		}

		if a.store != nil {
			if err := a.store.Save(ctx, state); err != nil {
				a.logger.Warn("saving the result", zap.Error(err), zap.String("run_id", state.Input.RunID))
			}
		}
		if out != "" {
			name := resultFile(out, state)
			if err := export.ToFile(name, state); err != nil {
				a.logger.Warn("writing the result", zap.Error(err), zap.String("filename", name))
			}
		}
	}

	a.logger.Info("batch finished",
		zap.Int("resumes", len(results)),
		zap.Int("with_stage_issues", failed),
		zap.Int("concurrency", a.config.Concurrency),
	)
}

// runBatch analyses every path with at most limit runs in flight. Results keep
// the order of paths. Runs never fail, so the only error is a cancelled context.
func runBatch(ctx context.Context, orchestrator *pipeline.Orchestrator, paths []string, location, remote string, limit int) ([]pipeline.State, error) {
	results := make([]pipeline.State, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = orchestrator.Run(gCtx, pipeline.State{Input: pipeline.Input{
				CandidateID:        candidateID("", path),
				DocumentPath:       path,
				LocationPreference: location,
				RemotePreference:   remote,
			}})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resultFile names the JSON result of one run. The source extension and the
// run id keep cv.pdf and cv.txt from the same directory apart.
func resultFile(dir string, state pipeline.State) string {
	base := state.Input.CandidateID
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(state.Input.DocumentPath)), "."); ext != "" {
		base += "_" + ext
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", base, state.Input.RunID))
}

func collectResumes(args []string, dir string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			paths = append(paths, arg)
		}
	}

	if dir == "" {
		return paths, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !resumeExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
