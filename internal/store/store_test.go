package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/career-pilot/internal/model"
	"github.com/spigell/career-pilot/internal/pipeline"
	"github.com/spigell/career-pilot/internal/roadmap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "career.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleState(runID, candidate string, total int) pipeline.State {
	return pipeline.State{
		Input: pipeline.Input{RunID: runID, CandidateID: candidate},
		Extraction: pipeline.Extraction{
			RawText: "python sql",
			Skills:  []string{"python", "sql"},
		},
		Recommendation: pipeline.Recommendation{
			Matches:      []model.RoleMatch{{Role: "Data Analyst", Score: 30}},
			SelectedRole: "Data Analyst",
		},
		Search: pipeline.Search{Jobs: []model.JobCandidate{{ExternalID: "j1", MatchScore: 55.5}}},
		Score:  model.ScoreBreakdown{Total: total, Keyword: total, Source: model.SourceRules},
		Errors: []string{"search: quota exceeded"},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	state := sampleState("run-1", "cand-1", 30)
	require.NoError(t, s.Save(ctx, state))

	got, err := s.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, state, got)

	state.Score.Total = 35
	state.Score.Keyword = 35
	require.NoError(t, s.Save(ctx, state))

	got, err = s.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 35, got.Score.Total)
}

func TestGetMissingRun(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRequiresRunID(t *testing.T) {
	s := openTestStore(t)

	err := s.Save(context.Background(), pipeline.State{})
	assert.Error(t, err)
}

func TestListByCandidate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	for i, runID := range []string{"run-a", "run-b", "run-c"} {
		at := base.Add(time.Duration(i) * time.Hour)
		s.now = func() time.Time { return at }
		require.NoError(t, s.Save(ctx, sampleState(runID, "cand-1", 10*(i+1))))
	}
	s.now = func() time.Time { return base }
	require.NoError(t, s.Save(ctx, sampleState("other", "cand-2", 5)))

	records, err := s.ListByCandidate(ctx, "cand-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "run-c", records[0].RunID)
	assert.Equal(t, 30, records[0].ATSTotal)
	assert.Equal(t, "Data Analyst", records[0].SelectedRole)
	assert.Equal(t, 1, records[0].Errors)
	assert.True(t, records[0].CreatedAt.Equal(base.Add(2*time.Hour)))

	limited, err := s.ListByCandidate(ctx, "cand-1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := s.ListByCandidate(ctx, "missing", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListByCandidateOrdersWithinOneSecond(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	whole := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return whole }
	require.NoError(t, s.Save(ctx, sampleState("older", "cand-1", 10)))

	s.now = func() time.Time { return whole.Add(100 * time.Millisecond) }
	require.NoError(t, s.Save(ctx, sampleState("newer", "cand-1", 20)))

	records, err := s.ListByCandidate(ctx, "cand-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].RunID)
	assert.Equal(t, "older", records[1].RunID)
	assert.True(t, records[1].CreatedAt.Equal(whole))
}

func TestRoadmapProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	days := roadmap.Template("Data Analyst", 3, start)
	require.NoError(t, s.SaveRoadmap(ctx, "cand-1", days))

	loaded, err := s.Roadmap(ctx, "cand-1")
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "2025-03-03", loaded[0].DateString())
	assert.Equal(t, days[1].Tasks, loaded[1].Tasks)

	jobs, referrals, recruiters := 6, 3, 2
	day, err := s.UpdateProgress(ctx, "cand-1", start, roadmap.Progress{
		JobsApplied:         &jobs,
		ReferralsSent:       &referrals,
		RecruitersConnected: &recruiters,
	})
	require.NoError(t, err)
	assert.True(t, day.Completed)

	loaded, err = s.Roadmap(ctx, "cand-1")
	require.NoError(t, err)
	assert.True(t, loaded[0].Completed)
	assert.Equal(t, 6, loaded[0].JobsApplied)
	assert.False(t, loaded[1].Completed)

	_, err = s.UpdateProgress(ctx, "cand-1", start.AddDate(0, 0, 30), roadmap.Progress{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, roadmap.ErrDayNotFound)

	require.NoError(t, s.SaveRoadmap(ctx, "cand-1", days[:1]))
	loaded, err = s.Roadmap(ctx, "cand-1")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.False(t, loaded[0].Completed)
}
