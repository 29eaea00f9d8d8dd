package service

import (
	"context"
	"testing"

	"SportsFeed/internal/repository"
	"SportsFeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncReplacesWholeSet(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	ctx := context.Background()

	football := testutil.SeedSport(t, db, "Football")
	basketball := testutil.SeedSport(t, db, "Basketball")
	tennis := testutil.SeedSport(t, db, "Tennis")
	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	require.NoError(t, svc.Sync(ctx, user, repository.KindSports, []uint64{football.ID, basketball.ID}))

	bundle, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, bundle.Sports, 2)

	// 整组替换：新集合完全取代旧集合
	require.NoError(t, svc.Sync(ctx, user, repository.KindSports, []uint64{tennis.ID}))
	bundle, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, bundle.Sports, 1)
	assert.Equal(t, tennis.ID, bundle.Sports[0].ID)

	// 空集合即清空
	require.NoError(t, svc.Sync(ctx, user, repository.KindSports, nil))
	bundle, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, bundle.Sports)
}

func TestSyncIsIdempotent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	ctx := context.Background()

	football := testutil.SeedSport(t, db, "Football")
	basketball := testutil.SeedSport(t, db, "Basketball")
	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	ids := []uint64{football.ID, basketball.ID}
	require.NoError(t, svc.Sync(ctx, user, repository.KindSports, ids))
	require.NoError(t, svc.Sync(ctx, user, repository.KindSports, ids))
	// 乱序与重复ID同样等价
	require.NoError(t, svc.Sync(ctx, user, repository.KindSports, []uint64{basketball.ID, football.ID, football.ID}))

	bundle, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, bundle.Sports, 2)
}

func TestSyncRejectsUnknownIDs(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	ctx := context.Background()

	football := testutil.SeedSport(t, db, "Football")
	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	err := svc.Sync(ctx, user, repository.KindSports, []uint64{football.ID, 9999})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "sport_ids")
	assert.Contains(t, vErr.Fields["sport_ids"], "9999")

	// 校验失败则一行都不写
	bundle, listErr := svc.List(ctx, user.ID)
	require.NoError(t, listErr)
	assert.Empty(t, bundle.Sports)
}

func TestAttachDetachIdempotent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	ctx := context.Background()

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	require.NoError(t, svc.Attach(ctx, user, repository.KindTeams, arsenal.ID))
	// 重复关注是静默成功
	require.NoError(t, svc.Attach(ctx, user, repository.KindTeams, arsenal.ID))

	bundle, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, bundle.Teams, 1)

	require.NoError(t, svc.Detach(ctx, user, repository.KindTeams, arsenal.ID))
	// 未关注状态下取消也算成功
	require.NoError(t, svc.Detach(ctx, user, repository.KindTeams, arsenal.ID))

	bundle, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, bundle.Teams)
}

func TestAttachUnknownEntity(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	err := svc.Attach(ctx, user, repository.KindPlayers, 4242)
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "player_ids")
}

func TestSaveAllAtomicAcrossKinds(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	ctx := context.Background()

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	// 合法的 sport_ids + 非法的 team_ids：全有或全无，任何一类都不写入
	sportIDs := []uint64{football.ID}
	badTeamIDs := []uint64{arsenal.ID, 9999}
	err := svc.SaveAll(ctx, user, SaveAllInput{SportIDs: &sportIDs, TeamIDs: &badTeamIDs})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "team_ids")

	bundle, listErr := svc.List(ctx, user.ID)
	require.NoError(t, listErr)
	assert.Empty(t, bundle.Sports)
	assert.Empty(t, bundle.Teams)
}

func TestSaveAllLeavesOmittedKindsUntouched(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	ctx := context.Background()

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	chelsea := testutil.SeedTeam(t, db, "Chelsea", football.ID, &premier.ID)
	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	require.NoError(t, svc.Sync(ctx, user, repository.KindSports, []uint64{football.ID}))

	// 只提供 team_ids：sports 不动
	teamIDs := []uint64{arsenal.ID, chelsea.ID}
	require.NoError(t, svc.SaveAll(ctx, user, SaveAllInput{TeamIDs: &teamIDs}))

	bundle, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, bundle.Sports, 1)
	assert.Len(t, bundle.Teams, 2)

	// 显式空切片才是清空
	empty := []uint64{}
	require.NoError(t, svc.SaveAll(ctx, user, SaveAllInput{TeamIDs: &empty}))
	bundle, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, bundle.Sports, 1)
	assert.Empty(t, bundle.Teams)
}

func TestListSeparatesKinds(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db), testutil.DiscardLogger())
	ctx := context.Background()

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	saka := testutil.SeedPlayer(t, db, "Saka", arsenal.ID, football.ID)
	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	require.NoError(t, svc.Attach(ctx, user, repository.KindSports, football.ID))
	require.NoError(t, svc.Attach(ctx, user, repository.KindLeagues, premier.ID))
	require.NoError(t, svc.Attach(ctx, user, repository.KindTeams, arsenal.ID))
	require.NoError(t, svc.Attach(ctx, user, repository.KindPlayers, saka.ID))

	bundle, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, bundle.Sports, 1)
	assert.Len(t, bundle.Leagues, 1)
	assert.Len(t, bundle.Teams, 1)
	assert.Len(t, bundle.Players, 1)
}
