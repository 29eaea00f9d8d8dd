package service

import (
	"context"
	"testing"
	"time"

	"SportsFeed/internal/repository"
	"SportsFeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMatchService(db *gorm.DB) *MatchService {
	return NewMatchService(
		repository.NewMatchRepository(db),
		repository.NewTaxonomyRepository(db),
		testutil.DiscardLogger(),
	)
}

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func matchInputFor(home, away, league, sport uint64, at time.Time, status string) MatchInput {
	return MatchInput{
		HomeTeamID: &home,
		AwayTeamID: &away,
		LeagueID:   &league,
		SportID:    &sport,
		MatchTime:  timePtr(at),
		Status:     &status,
	}
}

func TestCreateMatch(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newMatchService(db)

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	chelsea := testutil.SeedTeam(t, db, "Chelsea", football.ID, &premier.ID)
	super := testutil.SeedUser(t, db, "root@example.com", "super_admin", nil)

	kickoff := time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC)
	view, err := svc.Create(ctx, super, matchInputFor(arsenal.ID, chelsea.ID, premier.ID, football.ID, kickoff, MatchScheduled))
	require.NoError(t, err)
	assert.Equal(t, arsenal.ID, view.HomeTeam.ID)
	assert.Equal(t, chelsea.ID, view.AwayTeam.ID)
	assert.Equal(t, premier.ID, view.League.ID)
	assert.Equal(t, football.ID, view.Sport.ID)
	assert.Equal(t, MatchScheduled, view.Status)
	assert.True(t, view.MatchTime.Equal(kickoff))
	// 未开赛的比分为空
	assert.Nil(t, view.HomeScore)
	assert.Nil(t, view.AwayScore)
}

func TestCreateMatchValidation(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newMatchService(db)

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	chelsea := testutil.SeedTeam(t, db, "Chelsea", football.ID, &premier.ID)
	super := testutil.SeedUser(t, db, "root@example.com", "super_admin", nil)

	// 必填字段全缺
	_, err := svc.Create(ctx, super, MatchInput{})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	for _, field := range []string{"home_team_id", "away_team_id", "league_id", "sport_id", "match_time", "status"} {
		assert.Contains(t, vErr.Fields, field)
	}

	kickoff := time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC)

	// 状态枚举之外的值
	_, err = svc.Create(ctx, super, matchInputFor(arsenal.ID, chelsea.ID, premier.ID, football.ID, kickoff, "postponed"))
	vErr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "status")

	// 不存在的外键
	_, err = svc.Create(ctx, super, matchInputFor(9999, chelsea.ID, premier.ID, football.ID, kickoff, MatchScheduled))
	vErr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "home_team_id")
}

// 赛程写操作按运动项目范围授权，规则与文章一致
func TestMatchSportScope(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newMatchService(db)

	football := testutil.SeedSport(t, db, "Football")
	basketball := testutil.SeedSport(t, db, "Basketball")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	chelsea := testutil.SeedTeam(t, db, "Chelsea", football.ID, &premier.ID)
	footballAdmin := testutil.SeedUser(t, db, "fadmin@example.com", "admin", &football.ID)
	basketballAdmin := testutil.SeedUser(t, db, "badmin@example.com", "admin", &basketball.ID)
	user := testutil.SeedUser(t, db, "fan@example.com", "user", nil)

	kickoff := time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC)
	input := matchInputFor(arsenal.ID, chelsea.ID, premier.ID, football.ID, kickoff, MatchScheduled)

	view, err := svc.Create(ctx, footballAdmin, input)
	require.NoError(t, err)

	// 指派项目外：创建、更新、删除全部 403
	_, err = svc.Create(ctx, basketballAdmin, input)
	assert.ErrorIs(t, err, ErrUnauthorized)
	live := MatchLive
	_, err = svc.Update(ctx, basketballAdmin, view.ID, MatchInput{Status: &live})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, svc.Delete(ctx, basketballAdmin, view.ID), ErrUnauthorized)

	// 普通用户一律拒绝
	_, err = svc.Create(ctx, user, input)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// 不存在的赛程：404 优先于归属校验
	_, err = svc.Update(ctx, user, 9999, MatchInput{Status: &live})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, user, 9999), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, footballAdmin, view.ID))
}

// 状态流转与比分更新；未提供的字段保持原值
func TestUpdateMatchProgression(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newMatchService(db)

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	chelsea := testutil.SeedTeam(t, db, "Chelsea", football.ID, &premier.ID)
	super := testutil.SeedUser(t, db, "root@example.com", "super_admin", nil)

	kickoff := time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC)
	match := testutil.SeedMatch(t, db, arsenal.ID, chelsea.ID, premier.ID, football.ID, kickoff, MatchScheduled)

	// scheduled -> live，带上比分与进行分钟
	live := MatchLive
	minute := "63'"
	view, err := svc.Update(ctx, super, match.ID, MatchInput{
		Status:     &live,
		HomeScore:  intPtr(2),
		AwayScore:  intPtr(1),
		LiveMinute: &minute,
	})
	require.NoError(t, err)
	assert.Equal(t, MatchLive, view.Status)
	require.NotNil(t, view.HomeScore)
	assert.Equal(t, 2, *view.HomeScore)
	require.NotNil(t, view.LiveMinute)
	assert.Equal(t, "63'", *view.LiveMinute)
	// 未提供的字段不动
	assert.Equal(t, arsenal.ID, view.HomeTeam.ID)
	assert.True(t, view.MatchTime.Equal(kickoff))

	// live -> finished，只改状态，比分保留
	finished := MatchFinished
	view, err = svc.Update(ctx, super, match.ID, MatchInput{Status: &finished})
	require.NoError(t, err)
	assert.Equal(t, MatchFinished, view.Status)
	require.NotNil(t, view.AwayScore)
	assert.Equal(t, 1, *view.AwayScore)

	// 非法状态值
	bad := "cancelled"
	_, err = svc.Update(ctx, super, match.ID, MatchInput{Status: &bad})
	vErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, vErr.Fields, "status")
}

func TestListMatchesOrdering(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()
	svc := newMatchService(db)

	football := testutil.SeedSport(t, db, "Football")
	premier := testutil.SeedLeague(t, db, "Premier League", football.ID)
	arsenal := testutil.SeedTeam(t, db, "Arsenal", football.ID, &premier.ID)
	chelsea := testutil.SeedTeam(t, db, "Chelsea", football.ID, &premier.ID)

	base := time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC)
	early := testutil.SeedMatch(t, db, arsenal.ID, chelsea.ID, premier.ID, football.ID, base, MatchFinished)
	late := testutil.SeedMatch(t, db, chelsea.ID, arsenal.ID, premier.ID, football.ID, base.Add(7*24*time.Hour), MatchScheduled)

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	// 开赛时间倒序
	assert.Equal(t, late.ID, views[0].ID)
	assert.Equal(t, early.ID, views[1].ID)
	assert.Equal(t, "Chelsea", views[0].HomeTeam.Name)
	assert.Equal(t, "Premier League", views[0].League.Name)
}
