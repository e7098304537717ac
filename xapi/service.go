package xapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// XAPIService talks to the internal GraphQL endpoints with a browser
// fingerprint and a guest token (or a user-supplied cookie string). One
// resolution is one linear sequence of blocking requests.
type XAPIService struct {
	tokens          *GuestTokenCache
	client          *http.Client
	cookies         string
	maxAttempts     int
	maxQuoteDepth   int
	debug           bool
	tweetDataURL    string
	conversationURL string
	requests        int64
}

func NewXAPIService(tokens *GuestTokenCache, cookies string, proxyDSN string, debug bool) *XAPIService {
	service := &XAPIService{
		tokens:          tokens,
		cookies:         cookies,
		maxAttempts:     DefaultMaxAttempts,
		maxQuoteDepth:   DefaultMaxQuoteDepth,
		debug:           debug,
		tweetDataURL:    TweetDataURL,
		conversationURL: ConversationURL,
	}
	service.initHTTPClient(proxyDSN)
	return service
}

func (s *XAPIService) initHTTPClient(proxyDSN string) {
	s.client = &http.Client{
		Timeout: 30 * time.Second,
	}

	if proxyDSN != "" {
		proxyURL, err := url.Parse(proxyDSN)
		if err == nil {
			s.client.Transport = &http.Transport{
				Proxy: http.ProxyURL(proxyURL),
			}
		}
	}
}

// Requests reports how many HTTP calls the service has issued so far,
// auth retries and quote lookups included.
func (s *XAPIService) Requests() int64 {
	return s.requests
}

// SetLimits overrides the retry and quote-depth bounds. Zero or negative
// values keep the current setting.
func (s *XAPIService) SetLimits(maxAttempts, maxQuoteDepth int) {
	if maxAttempts > 0 {
		s.maxAttempts = maxAttempts
	}
	if maxQuoteDepth > 0 {
		s.maxQuoteDepth = maxQuoteDepth
	}
}

// requestHeaders lays the per-session credential over the base browser
// profile. The base map is rebuilt on every call so no shared state is
// ever mutated.
func (s *XAPIService) requestHeaders(guestToken string) map[string]string {
	headers := defaultHeaders()
	if s.cookies != "" {
		headers["cookie"] = s.cookies
	} else if guestToken != "" {
		headers["x-guest-token"] = guestToken
		headers["cookie"] = "guest_id=v1%3A" + guestToken + ";"
	}
	return headers
}

func (s *XAPIService) makeRequest(method, rawURL string, params map[string]interface{}, headers map[string]string) ([]byte, error) {
	reqURL := rawURL

	if method == http.MethodGet && params != nil {
		values := url.Values{}
		for key, value := range params {
			switch v := value.(type) {
			case string:
				values.Add(key, v)
			case map[string]interface{}:
				jsonBytes, _ := json.Marshal(v)
				values.Add(key, string(jsonBytes))
			default:
				values.Add(key, fmt.Sprintf("%v", v))
			}
		}
		reqURL += "?" + values.Encode()
	}

	req, err := http.NewRequest(method, reqURL, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	s.requests++
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if s.debug {
		fmt.Printf("=== DEBUG: HTTP Response ===\n")
		fmt.Printf("Status: %d %s\n", resp.StatusCode, resp.Status)
		fmt.Printf("URL: %s\n", reqURL)
		fmt.Printf("Response Body:\n%s\n", string(body))
		fmt.Printf("=== END DEBUG ===\n")
	}

	if resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: status %d, response: %s", ErrAuthExpired, resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// FetchTweet requests one post by rest id. The feature and toggle bundles
// are protocol-stability knobs the endpoint expects verbatim.
func (s *XAPIService) FetchTweet(tweetID string, headers map[string]string) ([]byte, error) {
	variables := map[string]interface{}{
		"tweetId":                tweetID,
		"withCommunity":          false,
		"includePromotedContent": false,
		"withVoice":              false,
	}

	features := map[string]interface{}{
		"creator_subscriptions_tweet_preview_api_enabled":                         true,
		"premium_content_api_read_enabled":                                        false,
		"communities_web_enable_tweet_community_results_fetch":                    true,
		"c9s_tweet_anatomy_moderator_badge_enabled":                               true,
		"responsive_web_grok_analyze_button_fetch_trends_enabled":                 false,
		"responsive_web_grok_analyze_post_followups_enabled":                      false,
		"responsive_web_jetfuel_frame":                                            false,
		"responsive_web_grok_share_attachment_enabled":                            true,
		"articles_preview_enabled":                                                true,
		"responsive_web_edit_tweet_api_enabled":                                   true,
		"graphql_is_translatable_rweb_tweet_is_translatable_enabled":              true,
		"view_counts_everywhere_api_enabled":                                      true,
		"longform_notetweets_consumption_enabled":                                 true,
		"responsive_web_twitter_article_tweet_consumption_enabled":                true,
		"tweet_awards_web_tipping_enabled":                                        false,
		"responsive_web_grok_analysis_button_from_backend":                        true,
		"creator_subscriptions_quote_tweet_preview_enabled":                       false,
		"freedom_of_speech_not_reach_fetch_enabled":                               true,
		"standardized_nudges_misinfo":                                             true,
		"tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled": true,
		"rweb_video_timestamps_enabled":                                           true,
		"longform_notetweets_rich_text_read_enabled":                              true,
		"longform_notetweets_inline_media_enabled":                                true,
		"profile_label_improvements_pcf_label_in_post_enabled":                    true,
		"rweb_tipjar_consumption_enabled":                                         true,
		"responsive_web_graphql_exclude_directive_enabled":                        true,
		"verified_phone_label_enabled":                                            false,
		"responsive_web_grok_image_annotation_enabled":                            false,
		"responsive_web_graphql_skip_user_profile_image_extensions_enabled":       false,
		"responsive_web_graphql_timeline_navigation_enabled":                      true,
		"responsive_web_enhance_cards_enabled":                                    false,
	}

	fieldToggles := map[string]interface{}{
		"withArticleRichContentState": true,
		"withArticlePlainText":        false,
		"withGrokAnalyze":             false,
		"withDisallowedReplyControls": false,
	}

	params := map[string]interface{}{
		"variables":    variables,
		"features":     features,
		"fieldToggles": fieldToggles,
	}

	return s.makeRequest(http.MethodGet, s.tweetDataURL, params, headers)
}

// FetchConversation requests the conversation thread around one post.
func (s *XAPIService) FetchConversation(tweetID string, headers map[string]string) ([]byte, error) {
	variables := map[string]interface{}{
		"focalTweetId":                           tweetID,
		"referrer":                               "tweet",
		"with_rux_injections":                    false,
		"rankingMode":                            "Relevance",
		"includePromotedContent":                 false,
		"withCommunity":                          true,
		"withQuickPromoteEligibilityTweetFields": true,
		"withBirdwatchNotes":                     true,
		"withVoice":                              true,
	}

	features := map[string]interface{}{
		"rweb_video_screen_enabled":                                               false,
		"payments_enabled":                                                        false,
		"profile_label_improvements_pcf_label_in_post_enabled":                    true,
		"rweb_tipjar_consumption_enabled":                                         true,
		"verified_phone_label_enabled":                                            false,
		"creator_subscriptions_tweet_preview_api_enabled":                         true,
		"responsive_web_graphql_timeline_navigation_enabled":                      true,
		"responsive_web_graphql_skip_user_profile_image_extensions_enabled":       false,
		"premium_content_api_read_enabled":                                        false,
		"communities_web_enable_tweet_community_results_fetch":                    true,
		"c9s_tweet_anatomy_moderator_badge_enabled":                               true,
		"responsive_web_grok_analyze_button_fetch_trends_enabled":                 false,
		"responsive_web_grok_analyze_post_followups_enabled":                      true,
		"responsive_web_jetfuel_frame":                                            false,
		"responsive_web_grok_share_attachment_enabled":                            true,
		"articles_preview_enabled":                                                true,
		"responsive_web_edit_tweet_api_enabled":                                   true,
		"graphql_is_translatable_rweb_tweet_is_translatable_enabled":              true,
		"view_counts_everywhere_api_enabled":                                      true,
		"longform_notetweets_consumption_enabled":                                 true,
		"responsive_web_twitter_article_tweet_consumption_enabled":                true,
		"tweet_awards_web_tipping_enabled":                                        false,
		"responsive_web_grok_show_grok_translated_post":                           false,
		"responsive_web_grok_analysis_button_from_backend":                        true,
		"creator_subscriptions_quote_tweet_preview_enabled":                       false,
		"freedom_of_speech_not_reach_fetch_enabled":                               true,
		"standardized_nudges_misinfo":                                             true,
		"tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled": true,
		"longform_notetweets_rich_text_read_enabled":                              true,
		"longform_notetweets_inline_media_enabled":                                true,
		"responsive_web_grok_image_annotation_enabled":                            true,
		"responsive_web_enhance_cards_enabled":                                    false,
	}

	fieldToggles := map[string]interface{}{
		"withArticleRichContentState": true,
		"withArticlePlainText":        false,
		"withGrokAnalyze":             false,
		"withDisallowedReplyControls": false,
	}

	params := map[string]interface{}{
		"variables":    variables,
		"features":     features,
		"fieldToggles": fieldToggles,
	}

	return s.makeRequest(http.MethodGet, s.conversationURL, params, headers)
}

type fetchFunc func(headers map[string]string) ([]byte, error)

type fetchState int

const (
	stateFetching fetchState = iota
	stateAuthRefresh
	stateSucceeded
	stateExhausted
)

// fetchWithAuthRetry drives one request through the auth retry cycle: a 403
// invalidates the cached guest token, forces a fresh activation and repeats
// the request, bounded by maxAttempts. Cookie sessions cannot be refreshed,
// so their 403 is terminal.
func (s *XAPIService) fetchWithAuthRetry(fetch fetchFunc) ([]byte, error) {
	var body []byte
	var lastErr error
	forceRefresh := false
	attempts := 0

	state := stateFetching
	for {
		switch state {
		case stateFetching:
			if attempts >= s.maxAttempts {
				state = stateExhausted
				continue
			}
			attempts++

			guestToken := ""
			if s.cookies == "" {
				token, err := s.tokens.Get(forceRefresh)
				if err != nil {
					return nil, err
				}
				guestToken = token
			}
			forceRefresh = false

			body, lastErr = fetch(s.requestHeaders(guestToken))
			switch {
			case lastErr == nil:
				state = stateSucceeded
			case errors.Is(lastErr, ErrAuthExpired) && s.cookies == "":
				state = stateAuthRefresh
			default:
				return nil, lastErr
			}

		case stateAuthRefresh:
			log.Printf("Guest token rejected, refreshing credential (attempt %d/%d)", attempts, s.maxAttempts)
			if err := s.tokens.Invalidate(); err != nil {
				log.Printf("Warning: failed to invalidate guest token cache: %v", err)
			}
			forceRefresh = true
			state = stateFetching

		case stateSucceeded:
			return body, nil

		case stateExhausted:
			return nil, fmt.Errorf("request failed after %d attempts: %w", s.maxAttempts, lastErr)
		}
	}
}

// ResolvePost runs the whole pipeline for one identifier: primary fetch with
// auth retry, normalization, bounded quote resolution and optional replies.
// Only the primary fetch is fatal, enrichment failures degrade with a log
// line and the post is still returned.
func (s *XAPIService) ResolvePost(identifier string, opts ResolveOptions) (*ResolvedPost, error) {
	tweetID, err := ExtractPostID(identifier)
	if err != nil {
		return nil, err
	}

	raw, err := s.fetchWithAuthRetry(func(headers map[string]string) ([]byte, error) {
		return s.FetchTweet(tweetID, headers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %w", tweetID, err)
	}

	post, err := ParseTweetResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse post %s: %w", tweetID, err)
	}

	s.resolveQuotes(post, 0)

	if opts.IncludeReplies {
		replies, err := s.FetchReplies(tweetID)
		if err != nil {
			log.Printf("Failed to fetch replies for %s: %v", tweetID, err)
		} else {
			post.Replies = replies
		}
	}

	return &ResolvedPost{Post: post, Raw: raw}, nil
}

// GetPost resolves an identifier and returns just the normalized post.
func (s *XAPIService) GetPost(identifier string) (*Post, error) {
	resolved, err := s.ResolvePost(identifier, ResolveOptions{})
	if err != nil {
		return nil, err
	}
	return resolved.Post, nil
}

// FetchReplies fetches the conversation thread of a post and returns the
// normalized replies, excluding the root post itself.
func (s *XAPIService) FetchReplies(tweetID string) ([]*Post, error) {
	raw, err := s.fetchWithAuthRetry(func(headers map[string]string) ([]byte, error) {
		return s.FetchConversation(tweetID, headers)
	})
	if err != nil {
		return nil, err
	}
	return ParseConversation(raw, tweetID)
}

// ExtractPostID accepts a bare numeric id or a status URL and returns the
// numeric id. For URLs anything after the status segment is cut and
// non-digit characters are stripped.
func ExtractPostID(identifier string) (string, error) {
	id := strings.TrimSpace(identifier)
	if strings.Contains(id, "status/") {
		id = strings.SplitN(id, "status/", 2)[1]
		id = strings.SplitN(id, "/", 2)[0]
		id = strings.SplitN(id, "?", 2)[0]
		digits := strings.Builder{}
		for _, r := range id {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		id = digits.String()
	}
	if !isDigits(id) {
		return "", fmt.Errorf("invalid post identifier: %q", identifier)
	}
	return id, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
