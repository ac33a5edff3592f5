package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"devstory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator returns a canned payload or error without any network calls.
type fakeGenerator struct {
	output map[string]interface{}
	err    error
	calls  int
}

func (g *fakeGenerator) Generate(ctx context.Context, inputContext string) (map[string]interface{}, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.output, nil
}

func sampleOutput() map[string]interface{} {
	return map[string]interface{}{
		"story":   "In the neon haze of the grid, a lone dev found a bug that refused to die.",
		"diagram": "graph TD; A[Client] --> B[API]; B --> C[DB];",
		"game_quests": []interface{}{
			map[string]interface{}{"title": "Slay the Null Pointer", "xp": float64(50)},
		},
		"demo_script": "1. Open the dashboard. 2. Trigger the pipeline.",
		"cheat_sheet": map[string]interface{}{
			"tech_stack":       []interface{}{"Go", "Postgres"},
			"innovation_score": float64(87),
		},
	}
}

func TestCreateRejectsEmptyContext(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, &fakeGenerator{})

	_, err := svc.Create(1, nil, "   ")
	assert.ErrorIs(t, err, ErrEmptyContext)

	var count int64
	db.Model(&models.Project{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateStartsGenerating(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, &fakeGenerator{})

	project, err := svc.Create(1, nil, "we built a rust-powered toaster")
	require.NoError(t, err)

	assert.Equal(t, models.ProjectStatusGenerating, project.Status)
	assert.Nil(t, project.Output)
	assert.NotZero(t, project.ID)
}

func TestGenerateCompletesWithOutput(t *testing.T) {
	db := newTestDB(t)
	gen := &fakeGenerator{output: sampleOutput()}
	svc := NewProjectService(db, gen)

	project, err := svc.Create(1, nil, "hackathon chat app with ai summaries")
	require.NoError(t, err)
	require.NoError(t, svc.Generate(context.Background(), project))

	stored, err := svc.GetProject(project.ID)
	require.NoError(t, err)

	assert.Equal(t, models.ProjectStatusCompleted, stored.Status)
	require.NotNil(t, stored.Output)
	assert.Contains(t, stored.Output, "story")
	assert.Contains(t, stored.Output, "diagram")
	assert.Contains(t, stored.Output, "game_quests")
	assert.Contains(t, stored.Output, "demo_script")

	cheatSheet, ok := stored.Output["cheat_sheet"].(map[string]interface{})
	require.True(t, ok, "cheat_sheet should round-trip as an object")
	assert.Equal(t, float64(87), cheatSheet["innovation_score"])
}

func TestGenerateFailureLandsInErrorState(t *testing.T) {
	db := newTestDB(t)
	gen := &fakeGenerator{err: errors.New("model returned malformed JSON")}
	svc := NewProjectService(db, gen)

	project, err := svc.Create(1, nil, "a drone that delivers coffee")
	require.NoError(t, err)

	err = svc.Generate(context.Background(), project)
	require.Error(t, err)

	stored, err := svc.GetProject(project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusError, stored.Status)
	assert.Empty(t, stored.Output, "failed projects never get partial output")
}

func TestTerminalStatesAreFinal(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, &fakeGenerator{})

	project, err := svc.Create(1, nil, "terminal transition check")
	require.NoError(t, err)

	require.NoError(t, svc.Complete(project.ID, sampleOutput()))

	// A late failure report cannot move a completed project
	require.NoError(t, svc.Fail(project.ID))
	stored, err := svc.GetProject(project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusCompleted, stored.Status)

	// Nor can a second completion rewrite the payload
	require.NoError(t, svc.Complete(project.ID, map[string]interface{}{"story": "overwritten"}))
	stored, err = svc.GetProject(project.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "overwritten", stored.Output["story"])
}

func TestListUserProjectsExcludesTeamProjects(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, &fakeGenerator{})

	_, err := svc.Create(7, nil, "personal project")
	require.NoError(t, err)

	teamID := uint(3)
	_, err = svc.Create(7, &teamID, "team project")
	require.NoError(t, err)

	personal, err := svc.ListUserProjects(7)
	require.NoError(t, err)
	require.Len(t, personal, 1)
	assert.Equal(t, "personal project", personal[0].InputContext)

	shared, err := svc.ListTeamProjects(teamID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "team project", shared[0].InputContext)
}

func TestFailStaleSweepsOnlyExpiredGenerating(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db, &fakeGenerator{})

	stale, err := svc.Create(1, nil, "stuck generation")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Project{}).
		Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-10*time.Minute)).Error)

	fresh, err := svc.Create(1, nil, "still in flight")
	require.NoError(t, err)

	done, err := svc.Create(1, nil, "finished long ago")
	require.NoError(t, err)
	require.NoError(t, svc.Complete(done.ID, sampleOutput()))
	require.NoError(t, db.Model(&models.Project{}).
		Where("id = ?", done.ID).
		Update("created_at", time.Now().Add(-10*time.Minute)).Error)

	swept, err := svc.FailStale(5 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	staleStored, _ := svc.GetProject(stale.ID)
	assert.Equal(t, models.ProjectStatusError, staleStored.Status)

	freshStored, _ := svc.GetProject(fresh.ID)
	assert.Equal(t, models.ProjectStatusGenerating, freshStored.Status)

	doneStored, _ := svc.GetProject(done.ID)
	assert.Equal(t, models.ProjectStatusCompleted, doneStored.Status)
}
