package xapi

import (
	"time"

	"github.com/buger/jsonparser"
)

// ParseTweetResponse extracts the tweet result from a TweetResultByRestId
// response body and normalizes it into a Post.
func ParseTweetResponse(raw []byte) (*Post, error) {
	result, _, _, err := jsonparser.Get(raw, "data", "tweetResult", "result")
	if err != nil {
		return nil, ErrPostNotFound
	}
	return ParsePost(result)
}

// ParsePost normalizes one raw tweet result object. The payload shape varies
// between API revisions, so every optional field is probed through an ordered
// list of known locations and defaults to its zero value when absent. Only a
// result without any extractable id fails.
func ParsePost(result []byte) (*Post, error) {
	result = unwrapResult(result)

	tweetID := firstString(result, []string{"rest_id"}, []string{"legacy", "id_str"})
	if tweetID == "" {
		return nil, ErrPostNotFound
	}

	legacy, _, _, _ := jsonparser.Get(result, "legacy")
	user, _, _, _ := jsonparser.Get(result, "core", "user_results", "result")
	note, _, _, _ := jsonparser.Get(result, "note_tweet", "note_tweet_results", "result")

	return buildPost(result, legacy, user, note), nil
}

func buildPost(tweet, legacy, user, note []byte) *Post {
	images, videos := extractMedia(legacy)

	// Long-form posts carry their full text in the note object, together
	// with their own entity set.
	text := stringAt(note, "text")
	var urls []URLEntity
	if text != "" {
		urls = parseURLEntities(note, "entity_set", "urls")
		if len(urls) == 0 {
			urls = parseURLEntities(legacy, "entities", "urls")
		}
	} else {
		text = stringAt(legacy, "full_text")
		urls = parseURLEntities(legacy, "entities", "urls")
	}
	urls = append(urls, mediaEntities(legacy)...)

	viewCount := stringAt(tweet, "views", "count")
	if viewCount == "" {
		viewCount = "0"
	}

	post := &Post{
		TweetID:     firstString(tweet, []string{"rest_id"}, []string{"legacy", "id_str"}),
		Username:    firstString(user, []string{"legacy", "screen_name"}, []string{"core", "screen_name"}),
		CreatedAt:   stringAt(legacy, "created_at"),
		Text:        ExpandURLs(text, urls),
		ViewCount:   viewCount,
		Images:      images,
		Videos:      videos,
		UserDetails: parseUserDetails(user),
		PostData:    parsePostData(tweet, legacy),
	}

	attachQuote(post, tweet, legacy)
	return post
}

func parseUserDetails(user []byte) UserDetails {
	return UserDetails{
		Name:             firstString(user, []string{"legacy", "name"}, []string{"core", "name"}),
		ScreenName:       firstString(user, []string{"legacy", "screen_name"}, []string{"core", "screen_name"}),
		Description:      stringAt(user, "legacy", "description"),
		FollowersCount:   intAt(user, "legacy", "followers_count"),
		FriendsCount:     intAt(user, "legacy", "friends_count"),
		Location:         stringAt(user, "legacy", "location"),
		CreatedAt:        firstString(user, []string{"legacy", "created_at"}, []string{"core", "created_at"}),
		ProfileImageURL:  stringAt(user, "legacy", "profile_image_url_https"),
		ProfileBannerURL: stringAt(user, "legacy", "profile_banner_url"),
		StatusesCount:    intAt(user, "legacy", "statuses_count"),
		MediaCount:       intAt(user, "legacy", "media_count"),
		ListedCount:      intAt(user, "legacy", "listed_count"),
		IsVerified:       boolAt(user, "legacy", "verified"),
		IsBlueVerified:   boolAt(user, "is_blue_verified") || boolAt(user, "legacy", "is_blue_verified"),
	}
}

func parsePostData(tweet, legacy []byte) PostData {
	return PostData{
		FavoriteCount:      intAt(legacy, "favorite_count"),
		RetweetCount:       intAt(legacy, "retweet_count"),
		ReplyCount:         intAt(legacy, "reply_count"),
		QuoteCount:         intAt(legacy, "quote_count"),
		BookmarkCount:      intAt(legacy, "bookmark_count"),
		IsQuoteStatus:      boolAt(legacy, "is_quote_status"),
		Lang:               stringAt(legacy, "lang"),
		Source:             stringAt(tweet, "source"),
		PossiblySensitive:  boolAt(legacy, "possibly_sensitive"),
		ConversationID:     stringAt(legacy, "conversation_id_str"),
		IsTranslatable:     boolAt(tweet, "is_translatable"),
		GrokAnalysisButton: boolAt(tweet, "grok_analysis_button"),
	}
}

// attachQuote probes the known quote locations in order: the result object,
// the older placement inside legacy, and finally the bare id field. A found
// object with a legacy sub-object is normalized recursively; an id-only
// reference keeps just QuotedTweetID for the quote resolver to fetch.
func attachQuote(post *Post, tweet, legacy []byte) {
	quoted, _, _, err := jsonparser.Get(tweet, "quoted_status_result", "result")
	if err != nil {
		quoted, _, _, err = jsonparser.Get(legacy, "quoted_status_result", "result")
	}
	if err == nil {
		quoted = unwrapResult(quoted)
		typename := stringAt(quoted, "__typename")
		if typename == "" || typename == "Tweet" {
			if _, _, _, legacyErr := jsonparser.Get(quoted, "legacy"); legacyErr == nil {
				if quotedPost, parseErr := ParsePost(quoted); parseErr == nil {
					post.QuotedTweet = quotedPost
					post.QuotedTweetID = quotedPost.TweetID
					return
				}
			}
			if id := stringAt(quoted, "rest_id"); id != "" {
				post.QuotedTweetID = id
				return
			}
		}
	}
	if id := stringAt(legacy, "quoted_status_id_str"); id != "" {
		post.QuotedTweetID = id
	}
}

func extractMedia(legacy []byte) ([]string, []string) {
	images, videos := []string{}, []string{}
	if len(legacy) == 0 {
		return images, videos
	}
	jsonparser.ArrayEach(legacy, func(item []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil {
			return
		}
		switch stringAt(item, "type") {
		case "photo":
			if url := stringAt(item, "media_url_https"); url != "" {
				images = append(images, url)
			}
		case "video", "animated_gif":
			if url := bestVariantURL(item); url != "" {
				videos = append(videos, url)
			}
		}
	}, "extended_entities", "media")
	return images, videos
}

// bestVariantURL picks the highest-bitrate variant. Strictly-greater
// comparison keeps the first variant on bitrate ties, and variants without a
// bitrate (HLS playlists) count as zero.
func bestVariantURL(item []byte) string {
	bestURL := ""
	bestBitrate := int64(-1)
	jsonparser.ArrayEach(item, func(variant []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil {
			return
		}
		url := stringAt(variant, "url")
		if url == "" {
			return
		}
		bitrate := intAt(variant, "bitrate")
		if bitrate > bestBitrate {
			bestBitrate = bitrate
			bestURL = url
		}
	}, "video_info", "variants")
	return bestURL
}

func parseURLEntities(data []byte, path ...string) []URLEntity {
	var entities []URLEntity
	if len(data) == 0 {
		return entities
	}
	jsonparser.ArrayEach(data, func(item []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil {
			return
		}
		entity := URLEntity{
			URL:         stringAt(item, "url"),
			ExpandedURL: stringAt(item, "expanded_url"),
		}
		if entity.URL != "" && entity.ExpandedURL != "" {
			entities = append(entities, entity)
		}
	}, path...)
	return entities
}

// mediaEntities maps media t.co links to their direct media URL so the
// expander can rewrite trailing media references in the post text.
func mediaEntities(legacy []byte) []URLEntity {
	var entities []URLEntity
	if len(legacy) == 0 {
		return entities
	}
	jsonparser.ArrayEach(legacy, func(item []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil {
			return
		}
		entity := URLEntity{
			URL:         stringAt(item, "url"),
			ExpandedURL: stringAt(item, "media_url_https"),
		}
		if entity.URL != "" && entity.ExpandedURL != "" {
			entities = append(entities, entity)
		}
	}, "extended_entities", "media")
	return entities
}

// unwrapResult steps into the inner tweet of a TweetWithVisibilityResults
// wrapper, which nests the real result one level down.
func unwrapResult(result []byte) []byte {
	if len(result) == 0 {
		return result
	}
	if _, err := jsonparser.GetString(result, "rest_id"); err == nil {
		return result
	}
	if inner, _, _, err := jsonparser.Get(result, "tweet"); err == nil {
		return inner
	}
	return result
}

func firstString(data []byte, paths ...[]string) string {
	for _, path := range paths {
		if value, err := jsonparser.GetString(data, path...); err == nil && value != "" {
			return value
		}
	}
	return ""
}

func stringAt(data []byte, path ...string) string {
	value, err := jsonparser.GetString(data, path...)
	if err != nil {
		return ""
	}
	return value
}

func intAt(data []byte, path ...string) int64 {
	value, err := jsonparser.GetInt(data, path...)
	if err != nil {
		return 0
	}
	return value
}

func boolAt(data []byte, path ...string) bool {
	value, err := jsonparser.GetBoolean(data, path...)
	if err != nil {
		return false
	}
	return value
}

func ParseTwitterTime(timeStr string) (time.Time, error) {
	layout := "Mon Jan 02 15:04:05 -0700 2006"
	return time.Parse(layout, timeStr)
}
