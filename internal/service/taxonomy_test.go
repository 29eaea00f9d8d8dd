package service

import (
	"context"
	"testing"

	"SportsFeed/internal/model"
	"SportsFeed/internal/repository"
	"SportsFeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyBrowsing(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := NewTaxonomyService(repository.NewTaxonomyRepository(db), testutil.DiscardLogger())

	football := testutil.SeedSport(t, db, "Football")
	basketball := testutil.SeedSport(t, db, "Basketball")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	testutil.SeedLeague(t, db, "NBA", basketball.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	testutil.SeedPlayer(t, db, "Saka", arsenal.ID, football.ID)

	sports, err := svc.ListSports(ctx)
	require.NoError(t, err)
	require.Len(t, sports, 2)
	assert.Equal(t, football.ID, sports[0].ID)
	assert.Equal(t, "Football", sports[0].Name)

	// 层级浏览只返回直接子级
	leagues, err := svc.ListLeagues(ctx, football.ID)
	require.NoError(t, err)
	require.Len(t, leagues, 1)
	assert.Equal(t, premier.ID, leagues[0].ID)

	teams, err := svc.ListTeams(ctx, premier.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, arsenal.ID, teams[0].ID)

	players, err := svc.ListPlayers(ctx, arsenal.ID)
	require.NoError(t, err)
	assert.Len(t, players, 1)

	// 父级不存在报 404，而不是空列表
	_, err = svc.ListLeagues(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ListTeams(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.ListPlayers(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTeamLeagueConsistency(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := NewTaxonomyService(repository.NewTaxonomyRepository(db), testutil.DiscardLogger())

	football := testutil.SeedSport(t, db, "Football")
	basketball := testutil.SeedSport(t, db, "Basketball")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)

	// 球队项目与所属联赛项目不一致
	err := svc.CreateTeam(ctx, &model.Team{Name: "Lakers", Country: "USA", SportID: basketball.ID, LeagueID: &premier.ID})
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	require.NoError(t, svc.CreateTeam(ctx, &model.Team{Name: "Chelsea", Country: "England", SportID: football.ID, LeagueID: &premier.ID}))
}

func TestDeleteTeamCascadesPreferences(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := NewTaxonomyService(repository.NewTaxonomyRepository(db), testutil.DiscardLogger())

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	fan := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	prefSvc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	require.NoError(t, prefSvc.Attach(ctx, fan, repository.KindTeams, arsenal.ID))

	require.NoError(t, svc.DeleteTeam(ctx, arsenal.ID))

	var count int64
	require.NoError(t, db.Model(&model.UserTeam{}).Where("team_id = ?", arsenal.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	assert.ErrorIs(t, svc.DeleteTeam(ctx, arsenal.ID), ErrNotFound)
}
