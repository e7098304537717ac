package main

import (
	"fmt"
	"strings"

	"github.com/grutapig/xtract/claude"
	"github.com/grutapig/xtract/xapi"
)

const summarySystemPrompt = `You summarize social media posts. Reply with 2-3 plain sentences describing what the post says and, when present, what the quoted post adds. No preamble, no markdown.`

// summaryQuoteContextDepth bounds how much of the quote chain is sent along.
const summaryQuoteContextDepth = 3

// SummaryService produces a short AI summary of a resolved post.
type SummaryService struct {
	claudeApi *claude.ClaudeApi
}

func NewSummaryService(claudeApi *claude.ClaudeApi) *SummaryService {
	return &SummaryService{claudeApi: claudeApi}
}

func (s *SummaryService) Enabled() bool {
	return s.claudeApi != nil
}

// Summarize sends the post text with its quote-chain context and returns the
// model's plain-text summary.
func (s *SummaryService) Summarize(post *xapi.Post) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("summary service is not configured")
	}

	messages := claude.ClaudeMessages{}
	messages = append(messages, claude.ClaudeMessage{Role: claude.ROLE_USER, Content: "the post is: @" + post.Username + ": " + post.Text})

	quoted := post.QuotedTweet
	for depth := 0; quoted != nil && depth < summaryQuoteContextDepth; depth++ {
		messages = append(messages, claude.ClaudeMessage{Role: claude.ROLE_USER, Content: "it quotes: @" + quoted.Username + ": " + quoted.Text})
		quoted = quoted.QuotedTweet
	}

	resp, err := s.claudeApi.SendMessage(messages, summarySystemPrompt)
	if err != nil {
		return "", fmt.Errorf("failed to summarize post %s: %w", post.TweetID, err)
	}

	summary := strings.TrimSpace(resp.TextContent())
	if summary == "" {
		return "", fmt.Errorf("empty summary for post %s", post.TweetID)
	}
	return summary, nil
}
