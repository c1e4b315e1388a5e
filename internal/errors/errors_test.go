package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestLoadErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("select: %w", &LoadError{Path: "/music/a.mp3", Err: fs.ErrNotExist})

	if !IsLoadError(err) {
		t.Error("IsLoadError() = false, want true")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false, want true")
	}
	if IsQueryError(err) {
		t.Error("IsQueryError() = true, want false")
	}
}

func TestQueryError(t *testing.T) {
	err := &QueryError{Op: "elapsed", Err: errors.New("busy")}
	if got := err.Error(); got != "engine query elapsed: busy" {
		t.Errorf("Error() = %q", got)
	}
	if !IsQueryError(err) {
		t.Error("IsQueryError() = false, want true")
	}
}

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"custom", WithSuggestion(errors.New("x"), "do y"), "do y"},
		{"unsupported", fmt.Errorf("decode: %w", ErrUnsupported), "Supported formats"},
		{"missing file", &LoadError{Path: "a.mp3", Err: errors.New("open a.mp3: no such file or directory")}, "rescan"},
		{"corrupt", &LoadError{Path: "a.mp3", Err: errors.New("bad header")}, "corrupt"},
		{"empty library", ErrEmptyLibrary, "Choose a folder"},
		{"config", ErrInvalidConfig, "deck config init"},
		{"unknown", errors.New("something"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" && got != "" {
				t.Errorf("GetSuggestion() = %q, want empty", got)
			}
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if Format(nil) != "" {
		t.Error("Format(nil) should be empty")
	}
	got := Format(ErrEmptyLibrary)
	if !strings.HasPrefix(got, "Error: no playable files found") || !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q", got)
	}
	if got := Format(errors.New("plain")); got != "Error: plain" {
		t.Errorf("Format() = %q, want %q", got, "Error: plain")
	}
}
