package slackutil

import (
	"fmt"
	"strings"
)

// User-facing messages.
const (
	MsgGenericError = ":slightly_frowning_face: 뭔가 문제가 발생했어요. 서버 로그를 확인해주세요."
	MsgNotFound     = ":slightly_frowning_face: 이 메세지에 대한 정보를 찾을 수 없습니다."
	MsgAlreadyVoted = ":thinking_face: 이미 이 메세지에 대한 피드백을 보내셨어요."
)

// UsageText is the reply to a command without input.
func UsageText(command string) string {
	return fmt.Sprintf("사용법: %s [한글로 된 입력값]", command)
}

// MessageLink returns the archive URL of a message. The ts loses its dot.
func MessageLink(channelID, ts string) string {
	return fmt.Sprintf("https://slack.com/archives/%s/p%s", channelID, strings.ReplaceAll(ts, ".", ""))
}

// WithMessageLink appends a "메세지 보기" link to text.
func WithMessageLink(text, channelID, ts string) string {
	return fmt.Sprintf("%s  <%s|메세지 보기>", text, MessageLink(channelID, ts))
}
