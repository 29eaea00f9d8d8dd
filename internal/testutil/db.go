package testutil

import (
	"io"
	"os"
	"testing"
	"time"

	"SportsFeed/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB 打开测试数据库（TEST_PG_DSN 环境变量），未配置则跳过当前测试。
// 每次调用都迁移表结构并清空数据，保证用例之间互不干扰
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN 未设置，跳过数据库测试")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Sport{},
		&model.League{},
		&model.Team{},
		&model.Player{},
		&model.User{},
		&model.NewsArticle{},
		&model.Match{},
		&model.ArticleLike{},
		&model.UserSport{},
		&model.UserLeague{},
		&model.UserTeam{},
		&model.UserPlayer{},
	))

	// 按外键依赖逆序清空
	for _, table := range []string{
		"article_likes", "user_sports", "user_leagues", "user_teams", "user_players",
		"news_articles", "matches", "players", "teams", "leagues", "users", "sports",
	} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

// DiscardLogger 输出全丢弃的 logrus 实例（测试用）
func DiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SeedSport 造一个运动项目
func SeedSport(t *testing.T, db *gorm.DB, name string) *model.Sport {
	t.Helper()
	sport := &model.Sport{Name: name}
	require.NoError(t, db.Create(sport).Error)
	return sport
}

// SeedLeague 造一个联赛
func SeedLeague(t *testing.T, db *gorm.DB, name string, sportID uint64) *model.League {
	t.Helper()
	league := &model.League{Name: name, Country: "England", SportID: sportID}
	require.NoError(t, db.Create(league).Error)
	return league
}

// SeedTeam 造一个球队
func SeedTeam(t *testing.T, db *gorm.DB, name string, sportID uint64, leagueID *uint64) *model.Team {
	t.Helper()
	team := &model.Team{Name: name, Country: "England", SportID: sportID, LeagueID: leagueID}
	require.NoError(t, db.Create(team).Error)
	return team
}

// SeedPlayer 造一个球员
func SeedPlayer(t *testing.T, db *gorm.DB, name string, teamID, sportID uint64) *model.Player {
	t.Helper()
	player := &model.Player{Name: name, Position: "Forward", Nationality: "England", TeamID: teamID, SportID: sportID}
	require.NoError(t, db.Create(player).Error)
	return player
}

// SeedUser 造一个用户。assignedSportID 非 nil 时即 admin 的指派项目
func SeedUser(t *testing.T, db *gorm.DB, email, role string, assignedSportID *uint64) *model.User {
	t.Helper()
	user := &model.User{
		Name:            "测试用户",
		Email:           email,
		PasswordHash:    "$2a$10$hash-placeholder",
		Role:            role,
		AssignedSportID: assignedSportID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedMatch 造一场赛程
func SeedMatch(t *testing.T, db *gorm.DB, homeTeamID, awayTeamID, leagueID, sportID uint64, matchTime time.Time, status string) *model.Match {
	t.Helper()
	match := &model.Match{
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		LeagueID:   leagueID,
		SportID:    sportID,
		MatchTime:  matchTime,
		Status:     status,
	}
	require.NoError(t, db.Create(match).Error)
	return match
}

// SeedArticle 造一篇文章
func SeedArticle(t *testing.T, db *gorm.DB, title string, sportID uint64, teamID *uint64, authorID uint64, publishedAt time.Time) *model.NewsArticle {
	t.Helper()
	article := &model.NewsArticle{
		Title:       title,
		Description: title,
		Content:     title + " 正文",
		Category:    "General",
		SportID:     sportID,
		TeamID:      teamID,
		AuthorID:    authorID,
		PublishedAt: publishedAt,
	}
	require.NoError(t, db.Create(article).Error)
	return article
}
