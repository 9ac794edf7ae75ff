// Package render builds the Slack Block Kit layout for a translation result.
// Output depends only on the input, so re-rendering after a vote replaces the
// message in place without drift.
package render

import (
	"fmt"
	"strings"

	"github.com/garyellow/varname-slackbot/internal/casing"
	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/slack-go/slack"
)

// Block and action identifiers. Vote routing keys off the action prefixes.
const (
	BlockIDFeedbackActions = "feedback_actions"
	ActionIDLike           = "like_button"
	ActionIDDislike        = "dislike_button"
	ValueLike              = "like"
	ValueDislike           = "dislike"
)

// Message is the input to Build.
type Message struct {
	Title        string
	Forms        *casing.Forms // nil omits the forms section
	LikeCount    int
	DislikeCount int
}

// Title formats the headline that mentions the requesting user.
func Title(userID, input string) string {
	return fmt.Sprintf("<@%s> '%s'에 대한 변수명 추천 결과입니다.", userID, input)
}

// FromFeedback rebuilds the message for a stored feedback. Forms are
// recomputed from the persisted translation.
func FromFeedback(f *storage.Feedback) Message {
	forms := casing.Convert(f.TranslatedText)
	return Message{
		Title:        Title(f.AuthorUserID, f.InputText),
		Forms:        &forms,
		LikeCount:    f.LikeCount,
		DislikeCount: f.DislikeCount,
	}
}

// FormsText lists the three naming conventions, one per line.
func FormsText(f casing.Forms) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*camelCase* : `%s`\n", f.Camel)
	fmt.Fprintf(&b, "*PascalCase* : `%s`\n", f.Pascal)
	fmt.Fprintf(&b, "*snake_case* : `%s`", f.Snake)
	return b.String()
}

// Build returns divider, title, optional forms, the vote buttons and a
// trailing divider.
func Build(m Message) []slack.Block {
	blocks := make([]slack.Block, 0, 5)
	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, m.Title, false, false), nil, nil),
	)

	if m.Forms != nil {
		blocks = append(blocks,
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, FormsText(*m.Forms), false, false), nil, nil))
	}

	like := slack.NewButtonBlockElement(ActionIDLike, ValueLike,
		slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf(":+1: %d", m.LikeCount), true, false))
	dislike := slack.NewButtonBlockElement(ActionIDDislike, ValueDislike,
		slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf(":-1: %d", m.DislikeCount), true, false))

	blocks = append(blocks,
		slack.NewActionBlock(BlockIDFeedbackActions, like, dislike),
		slack.NewDividerBlock(),
	)
	return blocks
}

// Text returns the notification fallback shown where blocks are not rendered.
func Text(m Message) string {
	return m.Title
}
