package xapi

import "encoding/json"

// Post is one resolved X post. Field names follow the structured JSON files
// this tool writes, so a Post marshals straight into tweet.json.
type Post struct {
	TweetID       string      `json:"tweet_id"`
	Username      string      `json:"username"`
	CreatedAt     string      `json:"created_at"`
	Text          string      `json:"text"`
	ViewCount     string      `json:"view_count"`
	Images        []string    `json:"images"`
	Videos        []string    `json:"videos"`
	UserDetails   UserDetails `json:"user_details"`
	PostData      PostData    `json:"post_data"`
	QuotedTweet   *Post       `json:"quoted_tweet,omitempty"`
	QuotedTweetID string      `json:"quoted_tweet_id,omitempty"`
	Replies       []*Post     `json:"replies,omitempty"`
}

// UserDetails is the author profile snapshot taken at fetch time.
type UserDetails struct {
	Name             string `json:"name"`
	ScreenName       string `json:"screen_name"`
	Description      string `json:"description"`
	FollowersCount   int64  `json:"followers_count"`
	FriendsCount     int64  `json:"friends_count"`
	Location         string `json:"location"`
	CreatedAt        string `json:"created_at"`
	ProfileImageURL  string `json:"profile_image_url"`
	ProfileBannerURL string `json:"profile_banner_url"`
	StatusesCount    int64  `json:"statuses_count"`
	MediaCount       int64  `json:"media_count"`
	ListedCount      int64  `json:"listed_count"`
	IsVerified       bool   `json:"is_verified"`
	IsBlueVerified   bool   `json:"is_blue_verified"`
}

// PostData is the engagement/metadata snapshot of a post.
type PostData struct {
	FavoriteCount      int64  `json:"favorite_count"`
	RetweetCount       int64  `json:"retweet_count"`
	ReplyCount         int64  `json:"reply_count"`
	QuoteCount         int64  `json:"quote_count"`
	BookmarkCount      int64  `json:"bookmark_count"`
	IsQuoteStatus      bool   `json:"is_quote_status"`
	Lang               string `json:"lang"`
	Source             string `json:"source"`
	PossiblySensitive  bool   `json:"possibly_sensitive"`
	ConversationID     string `json:"conversation_id"`
	IsTranslatable     bool   `json:"is_translatable"`
	GrokAnalysisButton bool   `json:"grok_analysis_button"`
}

// URLEntity is one t.co link with its expansion target, taken from the
// entity metadata of a payload.
type URLEntity struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
}

// ResolveOptions controls a single resolution run.
type ResolveOptions struct {
	IncludeReplies bool
}

// ResolvedPost is the outcome of a resolution: the normalized entity graph
// plus the raw primary response body for optional auditing.
type ResolvedPost struct {
	Post *Post
	Raw  json.RawMessage
}
