package model

import (
	"time"

	"gorm.io/datatypes"
)

type Sport struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name        string    `gorm:"column:name;type:varchar(64);uniqueIndex;not null;comment:运动项目名称"`
	Description *string   `gorm:"column:description;type:varchar(512);comment:简介"`
	Icon        *string   `gorm:"column:icon;type:varchar(256);comment:图标URL"`
	Color       *string   `gorm:"column:color;type:varchar(16);comment:主题色"`
	Emoji       *string   `gorm:"column:emoji;type:varchar(8);comment:表情符号"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

type League struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name          string    `gorm:"column:name;type:varchar(128);not null;comment:联赛名称"`
	Country       string    `gorm:"column:country;type:varchar(64);not null;comment:所属国家"`
	LogoEmoji     *string   `gorm:"column:logo_emoji;type:varchar(8);comment:联赛标志表情"`
	Season        *string   `gorm:"column:season;type:varchar(16);comment:当前赛季"`
	Confederation *string   `gorm:"column:confederation;type:varchar(64);comment:所属联合会"`
	SportID       uint64    `gorm:"column:sport_id;type:bigint;not null;index;comment:关联运动项目ID"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

type Team struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name      string    `gorm:"column:name;type:varchar(128);not null;comment:球队名称"`
	Country   string    `gorm:"column:country;type:varchar(64);not null;comment:所属国家"`
	City      *string   `gorm:"column:city;type:varchar(64);comment:所在城市"`
	Venue     *string   `gorm:"column:venue;type:varchar(128);comment:主场场馆"`
	Founded   *int      `gorm:"column:founded;type:int;comment:成立年份"`
	LogoURL   *string   `gorm:"column:logo_url;type:varchar(256);comment:队徽URL"`
	LeagueID  *uint64   `gorm:"column:league_id;type:bigint;index;comment:关联联赛ID（可空）"`
	SportID   uint64    `gorm:"column:sport_id;type:bigint;not null;index;comment:关联运动项目ID"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

type Player struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name         string    `gorm:"column:name;type:varchar(128);not null;comment:球员姓名"`
	Position     string    `gorm:"column:position;type:varchar(32);not null;comment:场上位置"`
	JerseyNumber *int      `gorm:"column:jersey_number;type:int;comment:球衣号码"`
	Nationality  string    `gorm:"column:nationality;type:varchar(64);not null;comment:国籍"`
	TeamID       uint64    `gorm:"column:team_id;type:bigint;not null;index;comment:关联球队ID"`
	SportID      uint64    `gorm:"column:sport_id;type:bigint;not null;index;comment:关联运动项目ID"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

type User struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name            string          `gorm:"column:name;type:varchar(128);not null;comment:用户昵称"`
	Email           string          `gorm:"column:email;type:varchar(128);uniqueIndex;not null;comment:邮箱（登录名）"`
	PasswordHash    string          `gorm:"column:password_hash;type:varchar(128);not null;comment:bcrypt密码哈希"`
	Phone           *string         `gorm:"column:phone;type:varchar(32);comment:手机号"`
	Bio             *string         `gorm:"column:bio;type:varchar(512);comment:个人简介"`
	ProfileImage    *string         `gorm:"column:profile_image;type:varchar(256);comment:头像URL"`
	Settings        *datatypes.JSON `gorm:"column:settings;type:jsonb;comment:用户个性化设置"`
	Role            string          `gorm:"column:role;type:varchar(16);not null;default:user;comment:角色：user/admin/super_admin"`
	AssignedSportID *uint64         `gorm:"column:assigned_sport_id;type:bigint;comment:管理员负责的运动项目ID（仅admin角色有意义）"`
	CreatedAt       time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

type NewsArticle struct {
	ID          uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Title       string          `gorm:"column:title;type:varchar(255);not null;comment:标题"`
	Description string          `gorm:"column:description;type:text;not null;comment:摘要"`
	Content     string          `gorm:"column:content;type:text;not null;comment:正文"`
	ImageURL    *string         `gorm:"column:image_url;type:varchar(256);comment:配图URL"`
	Category    string          `gorm:"column:category;type:varchar(64);not null;default:General;comment:栏目分类"`
	Tags        *datatypes.JSON `gorm:"column:tags;type:jsonb;comment:标签列表"`
	SportID     uint64          `gorm:"column:sport_id;type:bigint;not null;index;comment:关联运动项目ID"`
	TeamID      *uint64         `gorm:"column:team_id;type:bigint;index;comment:关联球队ID（可空）"`
	AuthorID    uint64          `gorm:"column:author_id;type:bigint;not null;index;comment:作者用户ID"`
	PublishedAt time.Time       `gorm:"column:published_at;type:timestamp;not null;comment:发布时间"`
	CreatedAt   time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// Match 赛程记录。主客队、联赛、项目均为外键；比分与比赛进行分钟数
// 仅在 live/finished 状态下有意义（可空）
type Match struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	HomeTeamID uint64    `gorm:"column:home_team_id;type:bigint;not null;index;comment:主队ID"`
	AwayTeamID uint64    `gorm:"column:away_team_id;type:bigint;not null;index;comment:客队ID"`
	LeagueID   uint64    `gorm:"column:league_id;type:bigint;not null;index;comment:关联联赛ID"`
	SportID    uint64    `gorm:"column:sport_id;type:bigint;not null;index;comment:关联运动项目ID"`
	MatchTime  time.Time `gorm:"column:match_time;type:timestamp;not null;index;comment:开赛时间"`
	Status     string    `gorm:"column:status;type:varchar(16);not null;comment:状态：scheduled/live/finished"`
	HomeScore  *int      `gorm:"column:home_score;type:int;comment:主队比分"`
	AwayScore  *int      `gorm:"column:away_score;type:int;comment:客队比分"`
	LiveMinute *string   `gorm:"column:live_minute;type:varchar(16);comment:比赛进行分钟数（直播态）"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// ArticleLike 点赞记录，(article_id, user_id) 唯一，保证一人一赞
type ArticleLike struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	ArticleID uint64    `gorm:"column:article_id;type:bigint;not null;uniqueIndex:uk_article_user;comment:关联文章ID"`
	UserID    uint64    `gorm:"column:user_id;type:bigint;not null;uniqueIndex:uk_article_user;comment:点赞用户ID"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

// 四张偏好关联表：纯 (user_id, entity_id) 多对多，成对唯一，无额外负载

type UserSport struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID  uint64 `gorm:"column:user_id;type:bigint;not null;uniqueIndex:uk_user_sport;comment:用户ID"`
	SportID uint64 `gorm:"column:sport_id;type:bigint;not null;uniqueIndex:uk_user_sport;comment:运动项目ID"`
}

type UserLeague struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID   uint64 `gorm:"column:user_id;type:bigint;not null;uniqueIndex:uk_user_league;comment:用户ID"`
	LeagueID uint64 `gorm:"column:league_id;type:bigint;not null;uniqueIndex:uk_user_league;comment:联赛ID"`
}

type UserTeam struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID uint64 `gorm:"column:user_id;type:bigint;not null;uniqueIndex:uk_user_team;comment:用户ID"`
	TeamID uint64 `gorm:"column:team_id;type:bigint;not null;uniqueIndex:uk_user_team;comment:球队ID"`
}

type UserPlayer struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID   uint64 `gorm:"column:user_id;type:bigint;not null;uniqueIndex:uk_user_player;comment:用户ID"`
	PlayerID uint64 `gorm:"column:player_id;type:bigint;not null;uniqueIndex:uk_user_player;comment:球员ID"`
}

func (Sport) TableName() string       { return "sports" }
func (League) TableName() string      { return "leagues" }
func (Team) TableName() string        { return "teams" }
func (Player) TableName() string      { return "players" }
func (User) TableName() string        { return "users" }
func (NewsArticle) TableName() string { return "news_articles" }
func (Match) TableName() string       { return "matches" }
func (ArticleLike) TableName() string { return "article_likes" }
func (UserSport) TableName() string   { return "user_sports" }
func (UserLeague) TableName() string  { return "user_leagues" }
func (UserTeam) TableName() string    { return "user_teams" }
func (UserPlayer) TableName() string  { return "user_players" }
