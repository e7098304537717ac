package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMessageLimit keeps rendered documents under the Telegram per-message cap.
const telegramMessageLimit = 4000

// TelegramNotifier sends the rendered post to one or more chats. The bot
// connection is established lazily so runs without notification never touch
// the Telegram API.
type TelegramNotifier struct {
	apiKey  string
	chatIDs []int64
	bot     *tgbotapi.BotAPI
}

func NewTelegramNotifier(apiKey string, chatIDs string) *TelegramNotifier {
	notifier := &TelegramNotifier{apiKey: apiKey}

	for _, chatIDStr := range strings.Split(chatIDs, ",") {
		chatIDStr = strings.TrimSpace(chatIDStr)
		if chatIDStr == "" {
			continue
		}
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			log.Printf("Warning: invalid telegram chat id: %s", chatIDStr)
			continue
		}
		notifier.chatIDs = append(notifier.chatIDs, chatID)
	}

	return notifier
}

// Enabled reports whether a bot key and at least one chat id are configured.
func (t *TelegramNotifier) Enabled() bool {
	return t.apiKey != "" && len(t.chatIDs) > 0
}

func (t *TelegramNotifier) connect() error {
	if t.bot != nil {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(t.apiKey)
	if err != nil {
		return fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	t.bot = bot
	return nil
}

// SendMarkdown delivers the document to every configured chat.
func (t *TelegramNotifier) SendMarkdown(content string) error {
	if !t.Enabled() {
		return fmt.Errorf("telegram notifier is not configured")
	}
	if err := t.connect(); err != nil {
		return err
	}

	content = truncateForTelegram(content)

	failed := 0
	for _, chatID := range t.chatIDs {
		msg := tgbotapi.NewMessage(chatID, content)
		msg.ParseMode = tgbotapi.ModeMarkdown

		if _, err := t.bot.Send(msg); err != nil {
			log.Printf("Failed to send telegram message to chat %d: %v", chatID, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to send to %d of %d chats", failed, len(t.chatIDs))
	}

	log.Printf("Sent telegram notification to %d chats", len(t.chatIDs))
	return nil
}

func truncateForTelegram(content string) string {
	runes := []rune(content)
	if len(runes) <= telegramMessageLimit {
		return content
	}
	return string(runes[:telegramMessageLimit-3]) + "..."
}
