package advice

import (
	"context"
	"errors"
)

var (
	// ErrMissingAPIKey means no model credentials were configured.
	ErrMissingAPIKey = errors.New("advice: api key not configured")
	// ErrUpstream means the model endpoint answered with an error status.
	ErrUpstream = errors.New("advice: upstream rejected request")
	// ErrEmptyResponse means the model answered without any text.
	ErrEmptyResponse = errors.New("advice: empty response")
)

const (
	MessageBadKey     = "I'm having a spot of bother connecting to my brain right now. Please check your API Key settings."
	MessageEmpty      = "I'm having a spot of bother thinking right now. Ask me again in a moment."
	MessageNoInternet = "I'm having trouble connecting. Please check your internet."
)

// Advisor turns a prompt plus a JSON-serialisable context object into
// advice text. An empty systemOverride selects the default mentor prompt
// built around contextData.
type Advisor interface {
	GenerateAdvice(ctx context.Context, prompt string, contextData interface{}, systemOverride string) (string, error)
}

// FriendlyMessage maps an advice failure to the text shown to the
// shopkeeper in place of advice.
func FriendlyMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingAPIKey), errors.Is(err, ErrUpstream):
		return MessageBadKey
	case errors.Is(err, ErrEmptyResponse):
		return MessageEmpty
	default:
		return MessageNoInternet
	}
}

// Topic names the kind of advice requested.
type Topic string

const (
	TopicSummary       Topic = "summary"
	TopicCoaching      Topic = "coaching"
	TopicSupplierEmail Topic = "supplier_email"
	TopicMarketing     Topic = "marketing"
	TopicChat          Topic = "chat"
)
