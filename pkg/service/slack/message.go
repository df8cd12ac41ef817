package slack

import (
	"fmt"
	"unicode/utf8"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/slack-go/slack"
)

const (
	maxSectionTextBytes = 3000
	maxContextItems     = 10
)

// AnswerBlocks renders an answer as a section with its text and a context line listing the cited files
func AnswerBlocks(answer *model.Answer) []slack.Block {
	text := truncateToMaxBytes(answer.Text, maxSectionTextBytes)
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
	}

	sources := answer.Sources()
	if len(sources) == 0 {
		return blocks
	}

	elements := make([]slack.MixedElement, 0, len(sources)+1)
	elements = append(elements, slack.NewTextBlockObject(slack.MarkdownType, ":page_facing_up: *Sources*", false, false))
	for i, s := range sources {
		if i+1 >= maxContextItems {
			elements = append(elements, slack.NewTextBlockObject(slack.PlainTextType,
				fmt.Sprintf("and %d more", len(sources)-i), false, false))
			break
		}
		elements = append(elements, slack.NewTextBlockObject(slack.PlainTextType, s, false, false))
	}
	blocks = append(blocks, slack.NewContextBlock("", elements...))

	return blocks
}

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}

	const ellipsis = "…"
	limit := maxBytes - len(ellipsis)
	if limit <= 0 {
		return ""
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + ellipsis
}
