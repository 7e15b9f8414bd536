package slack

import (
	"strings"
	"unicode/utf8"

	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Block Kit limits
const (
	maxHeaderLen  = 150
	maxSectionLen = 3000
	maxFieldLen   = 2000
	maxFields     = 10
)

var mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return mrkdwnEscaper.Replace(s)
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func buildBlocks(n *model.Notification) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, truncate(n.Title, maxHeaderLen), false, false)),
	}

	var fields []*slack.TextBlockObject
	for _, f := range n.Fields {
		if len(fields) == maxFields {
			break
		}
		value := f.Value
		if value == "" {
			value = "-"
		}
		text := "*" + escape(f.Name) + "*\n" + escape(value)
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, truncate(text, maxFieldLen), false, false))
	}
	if len(fields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	if strings.TrimSpace(n.Body) != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncate(escape(n.Body), maxSectionLen), false, false),
			nil, nil))
	}

	if n.Link != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, "<"+n.Link+"|Open in cisboard>", false, false)))
	}

	return blocks
}

func fallbackText(n *model.Notification) string {
	if n.Body == "" {
		return n.Title
	}
	return n.Title + ": " + truncate(n.Body, 200)
}
