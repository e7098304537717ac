package xapi

import (
	"fmt"
	"log"
	"strings"

	"github.com/buger/jsonparser"
)

// conversationInstructionPaths are the known locations of the instruction
// list in a conversation response. The shape has shifted between API
// revisions, so candidates are probed in order and the first present wins.
var conversationInstructionPaths = [][]string{
	{"data", "threaded_conversation_with_injections_v2", "instructions"},
	{"data", "threaded_conversation_with_replies", "instructions"},
}

// ParseConversation extracts the flat reply list of a conversation thread.
// The root post appears inside its own thread and is filtered out by id.
// Pagination cursors and non-tweet modules carry no tweet result and drop
// out. Entries that fail to normalize are logged and skipped; a partial
// list is still a success.
func ParseConversation(raw []byte, rootID string) ([]*Post, error) {
	for _, instructionsPath := range conversationInstructionPaths {
		replies, found := parseConversationAt(raw, rootID, instructionsPath)
		if found {
			return replies, nil
		}
	}
	return nil, fmt.Errorf("no conversation instructions found in response")
}

func parseConversationAt(raw []byte, rootID string, instructionsPath []string) ([]*Post, bool) {
	replies := []*Post{}

	appendReply := func(result []byte) {
		post, err := ParsePost(result)
		if err != nil {
			log.Printf("Skipping conversation entry without a parsable tweet: %v", err)
			return
		}
		if post.TweetID == rootID {
			return
		}
		replies = append(replies, post)
	}

	_, err := jsonparser.ArrayEach(raw, func(instruction []byte, dataType jsonparser.ValueType, instructionOffset int, err error) {
		if err != nil {
			return
		}
		jsonparser.ArrayEach(instruction, func(entry []byte, dataType jsonparser.ValueType, entryOffset int, err error) {
			if err != nil {
				return
			}
			entryID := stringAt(entry, "entryId")
			if entryID != "" && !strings.HasPrefix(entryID, "tweet-") && !strings.HasPrefix(entryID, "conversationthread-") {
				return
			}

			if result, _, _, resultErr := jsonparser.Get(entry, "content", "itemContent", "tweet_results", "result"); resultErr == nil {
				appendReply(result)
				return
			}

			// Thread entries keep their tweets one level deeper, in items.
			jsonparser.ArrayEach(entry, func(item []byte, dataType jsonparser.ValueType, itemOffset int, err error) {
				if err != nil {
					return
				}
				if result, _, _, resultErr := jsonparser.Get(item, "item", "itemContent", "tweet_results", "result"); resultErr == nil {
					appendReply(result)
				}
			}, "content", "items")
		}, "entries")
	}, instructionsPath...)
	if err != nil {
		return nil, false
	}

	return replies, true
}
