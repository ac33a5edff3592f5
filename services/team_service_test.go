package services

import (
	"fmt"
	"testing"

	"devstory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamPutsOwnerInMembers(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db)
	svc := NewTeamService(db, feed)

	owner := createTestUser(t, db, "neo")

	team, err := svc.CreateTeam("Zion Mainframe", owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, team.OwnerID)
	assert.True(t, svc.IsTeamMember(owner.ID, team.ID))

	entries, err := feed.Recent(team.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.LogTypeSystem, entries[0].Type)
	assert.Equal(t, "established the squad", entries[0].Message)
	assert.Equal(t, "neo", entries[0].UserName)
}

func TestCreateTeamRequiresName(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, NewFeedService(db))

	_, err := svc.CreateTeam("", 1)
	assert.Error(t, err)

	var count int64
	db.Model(&models.Team{}).Count(&count)
	assert.Zero(t, count)
}

func TestJoinTeamIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db)
	svc := NewTeamService(db, feed)

	owner := createTestUser(t, db, "morpheus")
	joiner := createTestUser(t, db, "trinity")

	team, err := svc.CreateTeam("Nebuchadnezzar", owner.ID)
	require.NoError(t, err)

	require.NoError(t, svc.JoinTeam(team.ID, joiner.ID))
	require.NoError(t, svc.JoinTeam(team.ID, joiner.ID))

	var count int64
	db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", team.ID, joiner.ID).
		Count(&count)
	assert.Equal(t, int64(1), count)

	// Joining does not announce itself; only the creation entry exists
	entries, err := feed.Recent(team.ID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJoinMissingTeamFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, NewFeedService(db))

	joiner := createTestUser(t, db, "tank")

	err := svc.JoinTeam(4242, joiner.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	var count int64
	db.Model(&models.TeamMember{}).Where("user_id = ?", joiner.ID).Count(&count)
	assert.Zero(t, count, "a failed join must not leave membership rows behind")
}

func TestAddMemberLogsRecruitment(t *testing.T) {
	db := newTestDB(t)
	feed := NewFeedService(db)
	svc := NewTeamService(db, feed)

	owner := createTestUser(t, db, "morpheus")
	recruit := createTestUser(t, db, "mouse")

	team, err := svc.CreateTeam("Dozer Crew", owner.ID)
	require.NoError(t, err)

	require.NoError(t, svc.AddMemberToTeam(team.ID, recruit.ID, "morpheus"))
	assert.True(t, svc.IsTeamMember(recruit.ID, team.ID))

	entries, err := feed.Recent(team.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first: recruitment entry, attributed to the inviter
	assert.Equal(t, models.LogTypeJoin, entries[0].Type)
	assert.Equal(t, "morpheus", entries[0].UserName)
	assert.Equal(t, "recruited mouse into the squad", entries[0].Message)
}

func TestGetUserTeamsFollowsMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, NewFeedService(db))

	owner := createTestUser(t, db, "owner")
	member := createTestUser(t, db, "member")

	first, err := svc.CreateTeam("Alpha", owner.ID)
	require.NoError(t, err)
	_, err = svc.CreateTeam("Bravo", owner.ID)
	require.NoError(t, err)

	require.NoError(t, svc.JoinTeam(first.ID, member.ID))

	ownerTeams, err := svc.GetUserTeams(owner.ID)
	require.NoError(t, err)
	assert.Len(t, ownerTeams, 2)

	memberTeams, err := svc.GetUserTeams(member.ID)
	require.NoError(t, err)
	require.Len(t, memberTeams, 1)
	assert.Equal(t, "Alpha", memberTeams[0].Name)
}

func TestGetTeamMembersKeepsPositionsForMissingUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db, NewFeedService(db))

	known := createTestUser(t, db, "apoc")

	profiles := svc.GetTeamMembers([]uint{known.ID, 9999, known.ID})
	require.Len(t, profiles, 3)

	assert.Equal(t, fmt.Sprint(known.ID), profiles[0].UID)
	assert.Equal(t, "apoc", profiles[0].DisplayName)

	assert.Equal(t, "unknown", profiles[1].UID)
	assert.Equal(t, "Unknown Operative", profiles[1].DisplayName)

	assert.Equal(t, fmt.Sprint(known.ID), profiles[2].UID)
}
