package domain

import "errors"

var (
	ErrInvalidForm       = errors.New("invalid form")
	ErrUnknownField      = errors.New("unknown field")
	ErrFieldNotFixable   = errors.New("field cannot be auto-fixed")
	ErrUnknownRule       = errors.New("unknown rule")
	ErrUnknownRegulation = errors.New("unknown regulation")
	ErrNoFixAvailable    = errors.New("no auto-fix available")
	ErrAIUnavailable     = errors.New("AI provider unavailable")
	ErrIncompleteAnswers = errors.New("competency answers incomplete")
	ErrEmptyPrompt       = errors.New("prompt is required")
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
