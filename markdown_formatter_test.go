package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grutapig/xtract/xapi"
)

func TestMarkdownFormatter_Render(t *testing.T) {
	formatter := NewMarkdownFormatter()

	doc, err := formatter.Render(samplePost(), "")
	require.NoError(t, err)

	t.Run("Frontmatter", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(doc, "---\n"))
		assert.Contains(t, doc, "tweet_id:")
		assert.Contains(t, doc, "1892413385804792307")
		assert.Contains(t, doc, "username: natureexplorer")
		assert.Contains(t, doc, "name: Nature Explorer")
		assert.Contains(t, doc, "2025-02-19 21:30:19")
		assert.Contains(t, doc, "likes: 4215")
		assert.Contains(t, doc, "retweets: 689")
		assert.Contains(t, doc, "https://x.com/natureexplorer/status/1892413385804792307")
	})

	t.Run("Header", func(t *testing.T) {
		assert.Contains(t, doc, "# Post by @natureexplorer ✓")
		assert.Contains(t, doc, "**Nature Explorer** (@natureexplorer) • 2025-02-19 21:30:19")
	})

	t.Run("Body", func(t *testing.T) {
		assert.Contains(t, doc, "#aurora season is finally here. Full trip notes below.")
	})

	t.Run("Images", func(t *testing.T) {
		assert.Contains(t, doc, "## Images")
		assert.Contains(t, doc, "![Image 1](https://pbs.twimg.com/media/GkFqzzRWcAAeYp1.jpg)")
	})

	t.Run("QuotedBlock", func(t *testing.T) {
		assert.Contains(t, doc, "## Quoted Tweet")
		assert.Contains(t, doc, "> # Post by @weatherdeskusa ✓")
		assert.Contains(t, doc, "> Severe geomagnetic storm watch issued for this weekend.")
		assert.Contains(t, doc, "> [Video 1](https://video.twimg.com/ext_tw_video/1900987000000000000/pu/vid/avc1/1280x720/clip720.mp4)")
		assert.NotContains(t, doc, "> ## Stats")
	})

	t.Run("Stats", func(t *testing.T) {
		assert.Contains(t, doc, "## Stats")
		assert.Contains(t, doc, "* **Views:** 331200")
		assert.Contains(t, doc, "* **Likes:** 4215")
		assert.Contains(t, doc, "* **Retweets:** 689")
		assert.Contains(t, doc, "* **Replies:** 312")
		assert.Contains(t, doc, "* **Quotes:** 57")
	})

	t.Run("Footer", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(doc, "*Tweet ID: 1892413385804792307*\n"))
	})

	t.Run("NoSummarySection", func(t *testing.T) {
		assert.NotContains(t, doc, "## AI Summary")
	})
}

func TestMarkdownFormatter_RenderWithSummary(t *testing.T) {
	formatter := NewMarkdownFormatter()

	doc, err := formatter.Render(samplePost(), "Aurora trip report quoting a storm watch.")
	require.NoError(t, err)

	assert.Contains(t, doc, "## AI Summary")
	assert.Contains(t, doc, "Aurora trip report quoting a storm watch.")

	statsAt := strings.Index(doc, "## Stats")
	summaryAt := strings.Index(doc, "## AI Summary")
	footerAt := strings.Index(doc, "*Tweet ID:")
	assert.Greater(t, summaryAt, statsAt)
	assert.Greater(t, footerAt, summaryAt)
}

func TestMarkdownFormatter_UnverifiedAuthorWithoutMedia(t *testing.T) {
	formatter := NewMarkdownFormatter()

	post := &xapi.Post{
		TweetID:     "2014570123456789012",
		Username:    "priyar_dev",
		CreatedAt:   "Mon Jul 14 09:12:44 +0000 2025",
		Text:        "Congrats on the release!",
		ViewCount:   "523",
		Images:      []string{},
		Videos:      []string{},
		UserDetails: xapi.UserDetails{Name: "Priya R."},
		PostData:    xapi.PostData{Lang: "en"},
	}

	doc, err := formatter.Render(post, "")
	require.NoError(t, err)

	assert.Contains(t, doc, "# Post by @priyar_dev\n")
	assert.NotContains(t, doc, "✓")
	assert.NotContains(t, doc, "## Images")
	assert.NotContains(t, doc, "## Videos")
	assert.NotContains(t, doc, "## Quoted Tweet")
}

func TestMarkdownFormatter_UnparseableDateKeptVerbatim(t *testing.T) {
	formatter := NewMarkdownFormatter()

	post := &xapi.Post{
		TweetID:   "1",
		Username:  "someone",
		CreatedAt: "not a real timestamp",
		Text:      "hello",
		Images:    []string{},
		Videos:    []string{},
	}

	doc, err := formatter.Render(post, "")
	require.NoError(t, err)
	assert.Contains(t, doc, "• not a real timestamp")
}

func TestMarkdownFilename(t *testing.T) {
	assert.Equal(t, "tweet_1892413385804792307.md", MarkdownFilename("1892413385804792307"))
}

func TestPostURL(t *testing.T) {
	withAuthor := &xapi.Post{TweetID: "42", Username: "someone"}
	assert.Equal(t, "https://x.com/someone/status/42", postURL(withAuthor))

	withoutAuthor := &xapi.Post{TweetID: "42"}
	assert.Equal(t, "https://x.com/i/web/status/42", postURL(withoutAuthor))
}
