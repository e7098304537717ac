package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/grutapig/xtract/xapi"
)

// MarkdownFormatter renders a resolved post as a Markdown document: YAML
// frontmatter, a readable rendering with media links and block-quoted quote
// chain, stats and an id footer.
type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

type markdownFrontmatter struct {
	TweetID  string `yaml:"tweet_id"`
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Created  string `yaml:"created"`
	Views    string `yaml:"views"`
	Likes    int64  `yaml:"likes"`
	Retweets int64  `yaml:"retweets"`
	Replies  int64  `yaml:"replies"`
	Quotes   int64  `yaml:"quotes"`
	URL      string `yaml:"url"`
}

func MarkdownFilename(postID string) string {
	return POST_MARKDOWN_PREFIX + postID + ".md"
}

// Render produces the full document. The summary section is optional and
// belongs to the top post only.
func (m *MarkdownFormatter) Render(post *xapi.Post, summary string) (string, error) {
	front := markdownFrontmatter{
		TweetID:  post.TweetID,
		Username: post.Username,
		Name:     post.UserDetails.Name,
		Created:  formatPostDate(post.CreatedAt),
		Views:    post.ViewCount,
		Likes:    post.PostData.FavoriteCount,
		Retweets: post.PostData.RetweetCount,
		Replies:  post.PostData.ReplyCount,
		Quotes:   post.PostData.QuoteCount,
		URL:      postURL(post),
	}
	frontmatter, err := yaml.Marshal(front)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(frontmatter)
	b.WriteString("---\n\n")
	b.WriteString(m.renderPost(post, true, summary))
	b.WriteString("\n")
	return b.String(), nil
}

// renderPost builds the readable part. Quoted posts are rendered recursively
// without stats and block-quoted for visual distinction.
func (m *MarkdownFormatter) renderPost(post *xapi.Post, includeStats bool, summary string) string {
	badge := ""
	if post.UserDetails.IsVerified || post.UserDetails.IsBlueVerified {
		badge = " ✓"
	}

	lines := []string{
		fmt.Sprintf("# Post by @%s%s", post.Username, badge),
		fmt.Sprintf("**%s** (@%s) • %s", post.UserDetails.Name, post.Username, formatPostDate(post.CreatedAt)),
		"",
		post.Text,
		"",
	}

	if len(post.Images) > 0 {
		lines = append(lines, "## Images")
		for i, imageURL := range post.Images {
			lines = append(lines, fmt.Sprintf("![Image %d](%s)", i+1, imageURL))
		}
		lines = append(lines, "")
	}

	if len(post.Videos) > 0 {
		lines = append(lines, "## Videos")
		for i, videoURL := range post.Videos {
			lines = append(lines, fmt.Sprintf("[Video %d](%s)", i+1, videoURL))
		}
		lines = append(lines, "")
	}

	if post.QuotedTweet != nil {
		lines = append(lines, "## Quoted Tweet", "---")
		quoted := m.renderPost(post.QuotedTweet, false, "")
		for _, line := range strings.Split(quoted, "\n") {
			lines = append(lines, "> "+line)
		}
		lines = append(lines, "---", "")
	}

	if includeStats {
		lines = append(lines,
			"## Stats",
			fmt.Sprintf("* **Views:** %s", post.ViewCount),
			fmt.Sprintf("* **Likes:** %d", post.PostData.FavoriteCount),
			fmt.Sprintf("* **Retweets:** %d", post.PostData.RetweetCount),
			fmt.Sprintf("* **Replies:** %d", post.PostData.ReplyCount),
			fmt.Sprintf("* **Quotes:** %d", post.PostData.QuoteCount),
			"",
		)
	}

	if summary != "" {
		lines = append(lines, "## AI Summary", summary, "")
	}

	lines = append(lines, fmt.Sprintf("*Tweet ID: %s*", post.TweetID))

	return strings.Join(lines, "\n")
}

func formatPostDate(createdAt string) string {
	parsed, err := xapi.ParseTwitterTime(createdAt)
	if err != nil {
		return createdAt
	}
	return parsed.Format("2006-01-02 15:04:05")
}

func postURL(post *xapi.Post) string {
	if post.Username == "" {
		return "https://x.com/i/web/status/" + post.TweetID
	}
	return "https://x.com/" + post.Username + "/status/" + post.TweetID
}
