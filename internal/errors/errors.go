package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrInvariant      = errors.New("invariant violation")
	ErrEngineInit     = errors.New("audio engine initialization failed")
	ErrEmptyLibrary   = errors.New("no playable files found")
	ErrUnsupported    = errors.New("unsupported audio format")
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// LoadError reports a track the engine could not open or decode.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// QueryError reports a transient failure reading engine state.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("engine query %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsLoadError returns true if err wraps a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsQueryError returns true if err wraps a *QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// DeckError wraps an error with a user-friendly suggestion.
type DeckError struct {
	Err        error
	Suggestion string
}

func (e *DeckError) Error() string {
	return e.Err.Error()
}

func (e *DeckError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &DeckError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var deckErr *DeckError
	if errors.As(err, &deckErr) && deckErr.Suggestion != "" {
		return deckErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrUnsupported) {
		return "Supported formats are .wav, .mp3, .flac and .ogg"
	}

	if IsLoadError(err) {
		if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "permission denied") {
			return "The file moved or is unreadable. Press 'o' to rescan the folder"
		}
		return "The file may be corrupt. Pick another track"
	}

	if errors.Is(err, ErrEngineInit) || strings.Contains(errStr, "audio device") {
		return "Check that an audio output device is available"
	}

	if errors.Is(err, ErrEmptyLibrary) {
		return "Choose a folder that contains .wav, .mp3, .flac or .ogg files"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'deck config init' to create a configuration file"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
