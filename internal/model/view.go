package model

import "time"

// 对外响应视图结构：可选字段统一用指针表达，不在运行时做“有则带上”判断

// AuthorSummary 文章作者摘要
type AuthorSummary struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SportSummary 运动项目摘要
type SportSummary struct {
	ID    uint64  `json:"id"`
	Name  string  `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
	Emoji *string `json:"emoji"`
}

// TeamSummary 球队摘要（文章未关联球队时整体为 nil）
type TeamSummary struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url"`
	Country string  `json:"country"`
}

// LeagueSummary 联赛摘要
type LeagueSummary struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// MatchView 赛程条目
type MatchView struct {
	ID         uint64        `json:"id"`
	HomeTeam   TeamSummary   `json:"home_team"`
	AwayTeam   TeamSummary   `json:"away_team"`
	League     LeagueSummary `json:"league"`
	Sport      SportSummary  `json:"sport"`
	MatchTime  time.Time     `json:"match_time"`
	Status     string        `json:"status"`
	HomeScore  *int          `json:"home_score"`
	AwayScore  *int          `json:"away_score"`
	LiveMinute *string       `json:"live_minute"`
}

// ArticleView 信息流/详情中的文章条目
type ArticleView struct {
	ID          uint64        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	ImageURL    *string       `json:"image_url"`
	Category    string        `json:"category"`
	PublishedAt time.Time     `json:"published_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	LikesCount  int64         `json:"likes_count"`
	IsLiked     bool          `json:"is_liked"`
	Author      AuthorSummary `json:"author"`
	Sport       SportSummary  `json:"sport"`
	Team        *TeamSummary  `json:"team,omitempty"`
}

// UserView 用户资料视图（管理端列表、注册/登录响应共用）
type UserView struct {
	ID              uint64        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Phone           *string       `json:"phone"`
	Bio             *string       `json:"bio"`
	ProfileImage    *string       `json:"profile_image"`
	Role            string        `json:"role"`
	AssignedSportID *uint64       `json:"assigned_sport_id"`
	AssignedSport   *SportSummary `json:"assigned_sport,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// SportView 运动项目完整视图
type SportView struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Icon        *string   `json:"icon"`
	Color       *string   `json:"color"`
	Emoji       *string   `json:"emoji"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSportSummary 从实体构建摘要
func NewSportSummary(s *Sport) SportSummary {
	return SportSummary{ID: s.ID, Name: s.Name, Icon: s.Icon, Color: s.Color, Emoji: s.Emoji}
}

// NewSportView 从实体构建完整视图
func NewSportView(s *Sport) SportView {
	return SportView{
		ID:          s.ID,
		Name:        s.Name,
		Icon:        s.Icon,
		Color:       s.Color,
		Emoji:       s.Emoji,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// NewLeagueSummary 从实体构建摘要
func NewLeagueSummary(l *League) LeagueSummary {
	return LeagueSummary{ID: l.ID, Name: l.Name, Country: l.Country}
}

// NewTeamSummary 从实体构建摘要
func NewTeamSummary(t *Team) *TeamSummary {
	if t == nil {
		return nil
	}
	return &TeamSummary{ID: t.ID, Name: t.Name, LogoURL: t.LogoURL, Country: t.Country}
}

// NewUserView 从实体构建用户视图，assignedSport 可为 nil
func NewUserView(u *User, assignedSport *Sport) UserView {
	view := UserView{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Phone:           u.Phone,
		Bio:             u.Bio,
		ProfileImage:    u.ProfileImage,
		Role:            u.Role,
		AssignedSportID: u.AssignedSportID,
		CreatedAt:       u.CreatedAt,
	}
	if assignedSport != nil {
		summary := NewSportSummary(assignedSport)
		view.AssignedSport = &summary
	}
	return view
}
