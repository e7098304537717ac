package xapi

import "log"

// resolveQuotes walks the quote chain under post. Levels the API already
// embedded are recursed into directly; id-only references are fetched and
// normalized through the same auth retry loop as the primary post. At
// maxQuoteDepth the chain is truncated to the bare id. A failed fetch or
// parse keeps the id, stops that branch and leaves the post itself valid.
func (s *XAPIService) resolveQuotes(post *Post, depth int) {
	if post == nil {
		return
	}
	if depth >= s.maxQuoteDepth {
		post.QuotedTweet = nil
		return
	}
	if post.QuotedTweet != nil {
		s.resolveQuotes(post.QuotedTweet, depth+1)
		return
	}
	if post.QuotedTweetID == "" {
		return
	}

	raw, err := s.fetchWithAuthRetry(func(headers map[string]string) ([]byte, error) {
		return s.FetchTweet(post.QuotedTweetID, headers)
	})
	if err != nil {
		log.Printf("Failed to fetch quoted post %s at depth %d: %v", post.QuotedTweetID, depth, err)
		return
	}

	quoted, err := ParseTweetResponse(raw)
	if err != nil {
		log.Printf("Failed to parse quoted post %s: %v", post.QuotedTweetID, err)
		return
	}

	post.QuotedTweet = quoted
	s.resolveQuotes(quoted, depth+1)
}
