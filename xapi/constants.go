package xapi

const BearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

const (
	GuestTokenURL   = "https://api.x.com/1.1/guest/activate.json"
	TweetDataURL    = "https://api.x.com/graphql/_y7SZqeOFfgEivILXIy3tQ/TweetResultByRestId"
	ConversationURL = "https://x.com/i/api/graphql/-0WTL1e9Pij-JWAF5ztCCA/TweetDetail"
)

const (
	DefaultTokenCacheDir = "/tmp/xtract/"
	TokenCacheFilename   = "guest_token.json"
	DefaultMaxAttempts   = 3
	DefaultMaxQuoteDepth = 5
)

// defaultHeaders returns a fresh header set for every request so callers can
// overlay the guest token or cookie without touching shared state.
func defaultHeaders() map[string]string {
	return map[string]string{
		"accept":                    "*/*",
		"accept-language":           "en-US,en;q=0.9",
		"authorization":             "Bearer " + BearerToken,
		"content-type":              "application/json",
		"origin":                    "https://x.com",
		"referer":                   "https://x.com/",
		"sec-ch-ua":                 `"Not(A:Brand";v="99", "Google Chrome";v="133", "Chromium";v="133"`,
		"sec-ch-ua-mobile":          "?0",
		"sec-ch-ua-platform":        `"macOS"`,
		"sec-fetch-dest":            "empty",
		"sec-fetch-mode":            "cors",
		"sec-fetch-site":            "same-site",
		"user-agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
		"x-twitter-active-user":     "yes",
		"x-twitter-client-language": "en",
	}
}
