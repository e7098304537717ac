package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/grutapig/xtract/xapi"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ArchiveService keeps every resolved post in a local sqlite database so
// repeated runs build up a queryable history. A service constructed without
// a database is a valid no-op used when archiving is switched off.
type ArchiveService struct {
	db *gorm.DB
}

func NewArchiveService(dbPath string) (*ArchiveService, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	service := &ArchiveService{db: db}

	if err := service.runMigrations(); err != nil {
		return nil, fmt.Errorf("failed to run archive migrations: %w", err)
	}

	return service, nil
}

// NewDisabledArchiveService returns a service whose writes all succeed
// without touching disk.
func NewDisabledArchiveService() *ArchiveService {
	return &ArchiveService{}
}

func (s *ArchiveService) Enabled() bool {
	return s != nil && s.db != nil
}

func (s *ArchiveService) runMigrations() error {
	return s.db.AutoMigrate(
		&PostModel{},
		&AuthorModel{},
		&FetchLogModel{},
	)
}

// SavePost upserts the post row, the author snapshot and the full document.
// Quoted posts and replies are archived recursively as rows of their own;
// the summary belongs to the top post only.
func (s *ArchiveService) SavePost(post *xapi.Post, summary string) error {
	if !s.Enabled() {
		return nil
	}
	if post == nil || post.TweetID == "" {
		return nil
	}

	document, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to encode post %s: %w", post.TweetID, err)
	}

	model := PostModel{
		ID:            post.TweetID,
		Username:      post.Username,
		Text:          post.Text,
		ViewCount:     post.ViewCount,
		FavoriteCount: post.PostData.FavoriteCount,
		RetweetCount:  post.PostData.RetweetCount,
		ReplyCount:    post.PostData.ReplyCount,
		QuoteCount:    post.PostData.QuoteCount,
		Lang:          post.PostData.Lang,
		QuotedPostID:  post.QuotedTweetID,
		ImageCount:    len(post.Images),
		VideoCount:    len(post.Videos),
		Document:      string(document),
		Summary:       summary,
		UpdatedAt:     time.Now(),
	}
	if postedAt, err := xapi.ParseTwitterTime(post.CreatedAt); err == nil {
		model.PostedAt = postedAt
	}

	if err := s.db.Save(&model).Error; err != nil {
		return fmt.Errorf("failed to save post %s: %w", post.TweetID, err)
	}

	if err := s.saveAuthor(post); err != nil {
		return err
	}

	if post.QuotedTweet != nil {
		if err := s.SavePost(post.QuotedTweet, ""); err != nil {
			return err
		}
	}
	for _, reply := range post.Replies {
		if err := s.SavePost(reply, ""); err != nil {
			return err
		}
	}

	return nil
}

func (s *ArchiveService) saveAuthor(post *xapi.Post) error {
	if post.Username == "" {
		return nil
	}

	details := post.UserDetails
	author := AuthorModel{
		Username:       post.Username,
		Name:           details.Name,
		Description:    details.Description,
		Location:       details.Location,
		FollowersCount: details.FollowersCount,
		FriendsCount:   details.FriendsCount,
		StatusesCount:  details.StatusesCount,
		MediaCount:     details.MediaCount,
		ListedCount:    details.ListedCount,
		IsVerified:     details.IsVerified,
		IsBlueVerified: details.IsBlueVerified,
		LastPostID:     post.TweetID,
		UpdatedAt:      time.Now(),
	}
	if registeredAt, err := xapi.ParseTwitterTime(details.CreatedAt); err == nil {
		author.RegisteredAt = registeredAt
	}

	if err := s.db.Save(&author).Error; err != nil {
		return fmt.Errorf("failed to save author %s: %w", post.Username, err)
	}
	return nil
}

// GetPost returns the archived row for one post id.
func (s *ArchiveService) GetPost(postID string) (*PostModel, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("archive is disabled")
	}
	var model PostModel
	if err := s.db.Where("id = ?", postID).First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// GetPostDocument decodes the stored JSON document back into a post graph.
func (s *ArchiveService) GetPostDocument(postID string) (*xapi.Post, error) {
	model, err := s.GetPost(postID)
	if err != nil {
		return nil, err
	}
	var post xapi.Post
	if err := json.Unmarshal([]byte(model.Document), &post); err != nil {
		return nil, fmt.Errorf("failed to decode document for post %s: %w", postID, err)
	}
	return &post, nil
}

func (s *ArchiveService) PostExists(postID string) bool {
	if !s.Enabled() {
		return false
	}
	var count int64
	s.db.Model(&PostModel{}).Where("id = ?", postID).Count(&count)
	return count > 0
}

func (s *ArchiveService) GetAuthor(username string) (*AuthorModel, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("archive is disabled")
	}
	var author AuthorModel
	if err := s.db.Where("username = ?", username).First(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// LogFetch appends one run record to the fetch history.
func (s *ArchiveService) LogFetch(entry *FetchLogModel) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to log fetch %s: %w", entry.RunUUID, err)
	}
	return nil
}

func (s *ArchiveService) GetFetchLog(runUUID string) (*FetchLogModel, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("archive is disabled")
	}
	var entry FetchLogModel
	if err := s.db.Where("run_uuid = ?", runUUID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// PruneFetchLogs deletes fetch history older than the retention window.
func (s *ArchiveService) PruneFetchLogs(days int) error {
	if !s.Enabled() {
		return nil
	}
	if days <= 0 {
		days = DEFAULT_FETCH_LOG_RETENTION_DAYS
	}

	cutoffDate := time.Now().AddDate(0, 0, -days)
	result := s.db.Where("created_at < ?", cutoffDate).Delete(&FetchLogModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to prune fetch logs: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("🧹 Pruned %d fetch log records older than %d days", result.RowsAffected, days)
	}
	return nil
}

func (s *ArchiveService) Close() error {
	if !s.Enabled() {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
