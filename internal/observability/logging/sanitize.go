package logging

import "regexp"

// Credential patterns, most specific first: the Anthropic pattern must run
// before the generic sk- one.
var (
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	// does not match an already masked key
	openaiKeyPattern   = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	sendGridKeyPattern = regexp.MustCompile(`SG\.[a-zA-Z0-9_-]{6,}(\.[a-zA-Z0-9_-]+)?`)
	// Gemini takes its key as a query parameter, so it shows up in url.Error.
	queryKeyPattern = regexp.MustCompile(`([?&]key=)[^&\s"]+`)
	// Telegram puts the bot token in the request path.
	botTokenPattern   = regexp.MustCompile(`/bot\d+:[a-zA-Z0-9_-]+`)
	dbPasswordPattern = regexp.MustCompile(`://([^:/\s]+):([^@\s]+)@`)
)

// Sanitize masks API keys, bot tokens and DSN passwords in msg.
func Sanitize(msg string) string {
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = sendGridKeyPattern.ReplaceAllString(msg, "SG.****")
	msg = queryKeyPattern.ReplaceAllString(msg, "${1}****")
	msg = botTokenPattern.ReplaceAllString(msg, "/bot****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}

// SanitizeError returns err's message with credentials masked, or "" for nil.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}
