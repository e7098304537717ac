package main

import (
	"time"

	"gorm.io/gorm"
)

// PostModel is one archived post. The row keeps queryable flat columns plus
// the full normalized JSON document; quoted posts and replies get rows of
// their own.
type PostModel struct {
	gorm.Model
	ID            string    `gorm:"primaryKey;column:id" json:"id"` // post id
	Username      string    `gorm:"column:username;index" json:"username"`
	Text          string    `gorm:"column:text" json:"text"`
	PostedAt      time.Time `gorm:"column:posted_at;index" json:"posted_at"`
	ViewCount     string    `gorm:"column:view_count" json:"view_count"`
	FavoriteCount int64     `gorm:"column:favorite_count" json:"favorite_count"`
	RetweetCount  int64     `gorm:"column:retweet_count" json:"retweet_count"`
	ReplyCount    int64     `gorm:"column:reply_count" json:"reply_count"`
	QuoteCount    int64     `gorm:"column:quote_count" json:"quote_count"`
	Lang          string    `gorm:"column:lang" json:"lang"`
	QuotedPostID  string    `gorm:"column:quoted_post_id;index" json:"quoted_post_id,omitempty"`
	ImageCount    int       `gorm:"column:image_count" json:"image_count"`
	VideoCount    int       `gorm:"column:video_count" json:"video_count"`
	Document      string    `gorm:"column:document" json:"document"` // full JSON graph of the post
	Summary       string    `gorm:"column:summary" json:"summary,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (PostModel) TableName() string {
	return "posts"
}

// AuthorModel is the latest profile snapshot of a post author, keyed by
// screen name.
type AuthorModel struct {
	gorm.Model
	Username       string    `gorm:"primaryKey;column:username" json:"username"`
	Name           string    `gorm:"column:name" json:"name"`
	Description    string    `gorm:"column:description" json:"description"`
	Location       string    `gorm:"column:location" json:"location"`
	FollowersCount int64     `gorm:"column:followers_count" json:"followers_count"`
	FriendsCount   int64     `gorm:"column:friends_count" json:"friends_count"`
	StatusesCount  int64     `gorm:"column:statuses_count" json:"statuses_count"`
	MediaCount     int64     `gorm:"column:media_count" json:"media_count"`
	ListedCount    int64     `gorm:"column:listed_count" json:"listed_count"`
	IsVerified     bool      `gorm:"column:is_verified;default:false" json:"is_verified"`
	IsBlueVerified bool      `gorm:"column:is_blue_verified;default:false" json:"is_blue_verified"`
	RegisteredAt   time.Time `gorm:"column:registered_at" json:"registered_at"`
	LastPostID     string    `gorm:"column:last_post_id" json:"last_post_id"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (AuthorModel) TableName() string {
	return "authors"
}

// FetchLogModel records one resolution run for operational history.
type FetchLogModel struct {
	gorm.Model
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RunUUID      string    `gorm:"column:run_uuid;uniqueIndex" json:"run_uuid"`
	Identifier   string    `gorm:"column:identifier" json:"identifier"`
	PostID       string    `gorm:"column:post_id;index" json:"post_id"`
	Outcome      string    `gorm:"column:outcome;index" json:"outcome"` // "ok" or "error"
	ErrorMessage string    `gorm:"column:error_message" json:"error_message,omitempty"`
	RequestCount int64     `gorm:"column:request_count" json:"request_count"`
	RepliesCount int       `gorm:"column:replies_count" json:"replies_count"`
	DurationMs   int64     `gorm:"column:duration_ms" json:"duration_ms"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (FetchLogModel) TableName() string {
	return "fetch_logs"
}
