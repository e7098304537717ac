package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grutapig/xtract/xapi"
)

func setupTestArchive(t *testing.T) *ArchiveService {
	dbPath := filepath.Join(t.TempDir(), "test_archive.db")

	archive, err := NewArchiveService(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		archive.Close()
	})

	return archive
}

func samplePost() *xapi.Post {
	quoted := &xapi.Post{
		TweetID:   "1900987654321098765",
		Username:  "weatherdeskusa",
		CreatedAt: "Tue Mar 11 08:15:42 +0000 2025",
		Text:      "Severe geomagnetic storm watch issued for this weekend.",
		ViewCount: "902113",
		Images:    []string{},
		Videos:    []string{"https://video.twimg.com/ext_tw_video/1900987000000000000/pu/vid/avc1/1280x720/clip720.mp4"},
		UserDetails: xapi.UserDetails{
			Name:           "Weather Desk USA",
			ScreenName:     "weatherdeskusa",
			IsBlueVerified: true,
		},
		PostData: xapi.PostData{
			FavoriteCount: 1201,
			Lang:          "en",
		},
	}

	reply := &xapi.Post{
		TweetID:     "1892414000000000001",
		Username:    "arcticlensphoto",
		CreatedAt:   "Wed Feb 19 21:44:02 +0000 2025",
		Text:        "Those camera settings saved my last trip, thank you!",
		ViewCount:   "1044",
		Images:      []string{},
		Videos:      []string{},
		UserDetails: xapi.UserDetails{Name: "Arctic Lens"},
		PostData:    xapi.PostData{Lang: "en", ReplyCount: 1},
	}

	return &xapi.Post{
		TweetID:   "1892413385804792307",
		Username:  "natureexplorer",
		CreatedAt: "Wed Feb 19 21:30:19 +0000 2025",
		Text:      "#aurora season is finally here. Full trip notes below.",
		ViewCount: "331200",
		Images:    []string{"https://pbs.twimg.com/media/GkFqzzRWcAAeYp1.jpg"},
		Videos:    []string{},
		UserDetails: xapi.UserDetails{
			Name:           "Nature Explorer",
			ScreenName:     "natureexplorer",
			Description:    "Chasing light above the Arctic Circle",
			Location:       "Reykjavik, Iceland",
			FollowersCount: 219864,
			FriendsCount:   412,
			StatusesCount:  8453,
			MediaCount:     3122,
			ListedCount:    1204,
			IsBlueVerified: true,
			CreatedAt:      "Sat Apr 19 14:06:33 +0000 2014",
		},
		PostData: xapi.PostData{
			FavoriteCount:  4215,
			RetweetCount:   689,
			ReplyCount:     312,
			QuoteCount:     57,
			BookmarkCount:  188,
			IsQuoteStatus:  true,
			Lang:           "en",
			Source:         `<a href="http://twitter.com/download/iphone" rel="nofollow">Twitter for iPhone</a>`,
			ConversationID: "1892413385804792307",
		},
		QuotedTweet:   quoted,
		QuotedTweetID: "1900987654321098765",
		Replies:       []*xapi.Post{reply},
	}
}

func TestArchiveService_PostOperations(t *testing.T) {
	archive := setupTestArchive(t)
	post := samplePost()

	t.Run("SavePost", func(t *testing.T) {
		err := archive.SavePost(post, "Aurora trip report with camera settings.")
		assert.NoError(t, err)
	})

	t.Run("GetPost", func(t *testing.T) {
		model, err := archive.GetPost("1892413385804792307")
		require.NoError(t, err)

		assert.Equal(t, "natureexplorer", model.Username)
		assert.Equal(t, "331200", model.ViewCount)
		assert.Equal(t, int64(4215), model.FavoriteCount)
		assert.Equal(t, int64(689), model.RetweetCount)
		assert.Equal(t, "en", model.Lang)
		assert.Equal(t, "1900987654321098765", model.QuotedPostID)
		assert.Equal(t, 1, model.ImageCount)
		assert.Equal(t, 0, model.VideoCount)
		assert.Equal(t, "Aurora trip report with camera settings.", model.Summary)
		assert.Equal(t, 2025, model.PostedAt.Year())
		assert.Equal(t, time.February, model.PostedAt.Month())
	})

	t.Run("PostExists", func(t *testing.T) {
		assert.True(t, archive.PostExists("1892413385804792307"))
		assert.False(t, archive.PostExists("999"))
	})

	t.Run("QuoteAndRepliesGetOwnRows", func(t *testing.T) {
		quotedRow, err := archive.GetPost("1900987654321098765")
		require.NoError(t, err)
		assert.Equal(t, "weatherdeskusa", quotedRow.Username)
		assert.Equal(t, 1, quotedRow.VideoCount)
		assert.Empty(t, quotedRow.Summary)

		replyRow, err := archive.GetPost("1892414000000000001")
		require.NoError(t, err)
		assert.Equal(t, "arcticlensphoto", replyRow.Username)
	})

	t.Run("DocumentRoundTrip", func(t *testing.T) {
		decoded, err := archive.GetPostDocument("1892413385804792307")
		require.NoError(t, err)
		assert.Equal(t, post, decoded)
	})

	t.Run("AuthorSnapshot", func(t *testing.T) {
		author, err := archive.GetAuthor("natureexplorer")
		require.NoError(t, err)

		assert.Equal(t, "Nature Explorer", author.Name)
		assert.Equal(t, "Reykjavik, Iceland", author.Location)
		assert.Equal(t, int64(219864), author.FollowersCount)
		assert.True(t, author.IsBlueVerified)
		assert.Equal(t, "1892413385804792307", author.LastPostID)
		assert.Equal(t, 2014, author.RegisteredAt.Year())
	})

	t.Run("UpsertUpdatesExistingRows", func(t *testing.T) {
		post.UserDetails.FollowersCount = 220001
		post.PostData.FavoriteCount = 4300

		err := archive.SavePost(post, "Updated summary.")
		require.NoError(t, err)

		model, err := archive.GetPost("1892413385804792307")
		require.NoError(t, err)
		assert.Equal(t, int64(4300), model.FavoriteCount)
		assert.Equal(t, "Updated summary.", model.Summary)

		author, err := archive.GetAuthor("natureexplorer")
		require.NoError(t, err)
		assert.Equal(t, int64(220001), author.FollowersCount)
	})
}

func TestArchiveService_FetchLog(t *testing.T) {
	archive := setupTestArchive(t)

	t.Run("SuccessEntry", func(t *testing.T) {
		entry := &FetchLogModel{
			RunUUID:      "run-ok",
			Identifier:   "https://x.com/natureexplorer/status/1892413385804792307",
			PostID:       "1892413385804792307",
			Outcome:      FETCH_OUTCOME_OK,
			RequestCount: 3,
			RepliesCount: 2,
			DurationMs:   412,
		}
		require.NoError(t, archive.LogFetch(entry))

		stored, err := archive.GetFetchLog("run-ok")
		require.NoError(t, err)
		assert.Equal(t, FETCH_OUTCOME_OK, stored.Outcome)
		assert.Equal(t, int64(3), stored.RequestCount)
		assert.Equal(t, 2, stored.RepliesCount)
		assert.Empty(t, stored.ErrorMessage)
	})

	t.Run("ErrorEntry", func(t *testing.T) {
		entry := &FetchLogModel{
			RunUUID:      "run-failed",
			Identifier:   "999",
			Outcome:      FETCH_OUTCOME_ERROR,
			ErrorMessage: "failed to fetch post 999: api error: status 404",
			RequestCount: 1,
		}
		require.NoError(t, archive.LogFetch(entry))

		stored, err := archive.GetFetchLog("run-failed")
		require.NoError(t, err)
		assert.Equal(t, FETCH_OUTCOME_ERROR, stored.Outcome)
		assert.Contains(t, stored.ErrorMessage, "status 404")
		assert.Empty(t, stored.PostID)
	})
}

func TestArchiveService_PruneFetchLogs(t *testing.T) {
	archive := setupTestArchive(t)

	require.NoError(t, archive.LogFetch(&FetchLogModel{RunUUID: "run-old", Identifier: "1", Outcome: FETCH_OUTCOME_OK}))
	require.NoError(t, archive.LogFetch(&FetchLogModel{RunUUID: "run-fresh", Identifier: "2", Outcome: FETCH_OUTCOME_OK}))

	backdated := time.Now().AddDate(0, 0, -45)
	err := archive.db.Model(&FetchLogModel{}).Where("run_uuid = ?", "run-old").Update("created_at", backdated).Error
	require.NoError(t, err)

	require.NoError(t, archive.PruneFetchLogs(30))

	_, err = archive.GetFetchLog("run-old")
	assert.Error(t, err)

	fresh, err := archive.GetFetchLog("run-fresh")
	require.NoError(t, err)
	assert.Equal(t, "run-fresh", fresh.RunUUID)
}

func TestArchiveService_Disabled(t *testing.T) {
	archive := NewDisabledArchiveService()

	assert.False(t, archive.Enabled())
	assert.NoError(t, archive.SavePost(samplePost(), ""))
	assert.NoError(t, archive.LogFetch(&FetchLogModel{RunUUID: "run-noop"}))
	assert.NoError(t, archive.PruneFetchLogs(30))
	assert.NoError(t, archive.Close())

	assert.False(t, archive.PostExists("1892413385804792307"))

	_, err := archive.GetPost("1892413385804792307")
	assert.Error(t, err)
}
