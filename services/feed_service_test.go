package services

import (
	"fmt"
	"testing"
	"time"

	"devstory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentReturnsNewestFirstAndClamps(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db)

	teamID := uint(1)
	for i := 1; i <= FeedReplayLimit+5; i++ {
		require.NoError(t, feed.Append(teamID, models.LogTypeAction, 1, "op", fmt.Sprintf("event %d", i)))
	}

	entries, err := feed.Recent(teamID, 0)
	require.NoError(t, err)
	require.Len(t, entries, FeedReplayLimit)
	assert.Equal(t, fmt.Sprintf("event %d", FeedReplayLimit+5), entries[0].Message)

	limited, err := feed.Recent(teamID, 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)

	oversized, err := feed.Recent(teamID, FeedReplayLimit*10)
	require.NoError(t, err)
	assert.Len(t, oversized, FeedReplayLimit)
}

func TestRecentIsScopedPerTeam(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db)

	require.NoError(t, feed.Append(1, models.LogTypeAction, 1, "op", "team one event"))
	require.NoError(t, feed.Append(2, models.LogTypeAction, 1, "op", "team two event"))

	entries, err := feed.Recent(1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "team one event", entries[0].Message)
}

func TestSubscribeReplaysThenStreamsLive(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db)

	teamID := uint(7)
	require.NoError(t, feed.Append(teamID, models.LogTypeSystem, 1, "op", "first"))
	require.NoError(t, feed.Append(teamID, models.LogTypeAction, 1, "op", "second"))

	ch, cancel, err := feed.Subscribe(teamID)
	require.NoError(t, err)
	defer cancel()

	// Replay is newest first
	assert.Equal(t, "second", receiveEntry(t, ch).Message)
	assert.Equal(t, "first", receiveEntry(t, ch).Message)

	require.NoError(t, feed.Append(teamID, models.LogTypeReward, 1, "op", "live"))
	assert.Equal(t, "live", receiveEntry(t, ch).Message)
}

func TestSubscribeIgnoresOtherTeams(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db)

	ch, cancel, err := feed.Subscribe(1)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, feed.Append(2, models.LogTypeAction, 1, "op", "elsewhere"))

	select {
	case entry := <-ch:
		t.Fatalf("received entry for a different team: %q", entry.Message)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db)

	teamID := uint(3)
	ch, cancel, err := feed.Subscribe(teamID)
	require.NoError(t, err)

	cancel()
	// A second cancel must be safe
	cancel()

	require.NoError(t, feed.Append(teamID, models.LogTypeAction, 1, "op", "after cancel"))

	_, open := <-ch
	assert.False(t, open, "channel must be closed after cancel")
}

func receiveEntry(t *testing.T, ch <-chan models.ActivityLog) models.ActivityLog {
	t.Helper()
	select {
	case entry, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return entry
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feed entry")
		return models.ActivityLog{}
	}
}
