package ai

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a generation failed.
type ErrorKind int

const (
	// KindConfiguration means the backend credential or config is missing.
	KindConfiguration ErrorKind = iota + 1
	// KindTransport means the backend call itself failed.
	KindTransport
	// KindParse means the backend answered with something that is not a campaign.
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Messages shown to end users. Backend details never leave the process.
const (
	MissingAPIKeyMessage      = "API_KEY environment variable not set."
	UnexpectedResponseMessage = "Failed to generate campaign. The AI returned an unexpected response. Please check your inputs and try again."
)

// GenerationError is the only error type GenerateCampaign returns.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UserMessage is safe to return to a client.
func (e *GenerationError) UserMessage() string {
	if e.Kind == KindConfiguration {
		return MissingAPIKeyMessage
	}
	return UnexpectedResponseMessage
}

// KindOf returns the kind of the GenerationError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return 0
}

func configurationError(msg string) *GenerationError {
	return &GenerationError{Kind: KindConfiguration, Message: msg}
}

func transportError(msg string, err error) *GenerationError {
	return &GenerationError{Kind: KindTransport, Message: msg, Err: err}
}

func parseError(msg string, err error) *GenerationError {
	return &GenerationError{Kind: KindParse, Message: msg, Err: err}
}
