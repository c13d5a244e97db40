// Package pipeline runs the onboarding stages as an explicit state machine:
// extract, then recommend when skills were found, then search when roles were
// recommended, then score. Stage failures are recorded and replaced by safe
// defaults; Run never fails.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/career-pilot/internal/ats"
	"github.com/spigell/career-pilot/internal/document"
	"github.com/spigell/career-pilot/internal/extraction"
	"github.com/spigell/career-pilot/internal/logger"
	"github.com/spigell/career-pilot/internal/recommend"
)

const end = ""

// Deps aggregates the collaborators shared by the stages. Nil engines fall
// back to their rule-only variants and a nil document reader to the local file
// reader. A nil job source makes search record an error and return no jobs.
type Deps struct {
	Extractor   Extractor
	Recommender Recommender
	Jobs        JobSource
	Scorer      Scorer
	Documents   DocumentReader
	Logger      *zap.Logger
	TopN        int
}

// Orchestrator owns the stage graph.
type Orchestrator struct {
	stages map[string]Stage
	logger *zap.Logger
}

// New wires the default stages.
func New(deps Deps) *Orchestrator {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Extractor == nil {
		deps.Extractor = extraction.New(nil, log)
	}
	if deps.Recommender == nil {
		deps.Recommender = recommend.New(nil, log)
	}
	if deps.Scorer == nil {
		deps.Scorer = ats.New(nil, log)
	}
	if deps.Documents == nil {
		deps.Documents = document.New(log.Named("document"))
	}

	return NewWithStages(log,
		&extractStage{extractor: deps.Extractor, documents: deps.Documents},
		&recommendStage{recommender: deps.Recommender, topN: deps.TopN},
		&searchStage{jobs: deps.Jobs},
		&scoreStage{scorer: deps.Scorer},
	)
}

// NewWithStages builds an orchestrator from explicit stages keyed by name.
// Stages missing from the graph are skipped as if their transition led to END.
func NewWithStages(log *zap.Logger, stages ...Stage) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{stages: make(map[string]Stage, len(stages)), logger: log}
	for _, st := range stages {
		o.stages[st.Name()] = st
	}
	return o
}

// Run executes the graph from the extract stage.
func (o *Orchestrator) Run(ctx context.Context, initial State) State {
	return o.runFrom(ctx, StageExtract, initial)
}

// Reselect runs search and score again for a role picked by the user. The
// extraction and the recommendation list are kept; only the selected role changes.
func (o *Orchestrator) Reselect(ctx context.Context, s State, role string) State {
	s.Recommendation.SelectedRole = role
	return o.runFrom(ctx, StageSearch, s)
}

func (o *Orchestrator) runFrom(ctx context.Context, entry string, s State) State {
	if s.Input.RunID == "" {
		s.Input.RunID = uuid.NewString()
	}
	if s.Errors == nil {
		s.Errors = []string{}
	}

	log := logger.ForRun(o.logger, s.Input.RunID, s.Input.CandidateID)
	started := time.Now()
	invoked := 0

	for name := entry; name != end; name = next(name, s) {
		st, ok := o.stages[name]
		if !ok {
			log.Warn("stage is not registered; stopping", zap.String(logger.FieldStage, name))
			break
		}
		invoked++
		s = o.step(ctx, logger.ForStage(log, name), st, s)
	}

	log.Info("pipeline finished",
		zap.Int("stages", invoked),
		zap.Int("errors", len(s.Errors)),
		zap.String("selected_role", s.Recommendation.SelectedRole),
		zap.Int("jobs", len(s.Search.Jobs)),
		zap.Int("ats_total", s.Score.Total),
		zap.Duration("elapsed", time.Since(started)),
	)

	return s.normalize()
}

func (o *Orchestrator) step(ctx context.Context, log *zap.Logger, st Stage, s State) State {
	started := time.Now()
	patch := apply(ctx, st, s)

	s = s.merge(patch)
	if patch.Err != nil {
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", st.Name(), patch.Err))
		log.Warn("stage degraded", zap.Error(patch.Err), zap.Duration("elapsed", time.Since(started)))
		return s
	}

	log.Info("stage completed", zap.Duration("elapsed", time.Since(started)))
	return s
}

// apply runs a stage, turning a panic into the stage default plus an error.
func apply(ctx context.Context, st Stage, s State) (patch Patch) {
	defer func() {
		if r := recover(); r != nil {
			patch = st.Default()
			patch.Err = fmt.Errorf("panic: %v", r)
		}
	}()
	return st.Apply(ctx, s)
}

// next is the transition function of the graph.
func next(current string, s State) string {
	switch current {
	case StageExtract:
		if len(s.Extraction.Skills) > 0 {
			return StageRecommend
		}
		return end
	case StageRecommend:
		if len(s.Recommendation.Matches) > 0 {
			return StageSearch
		}
		return StageScore
	case StageSearch:
		return StageScore
	default:
		return end
	}
}
