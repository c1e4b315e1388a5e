package wizard

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tessro/deck/internal/config"
)

// setupAnswers holds the form values in their editable form.
type setupAnswers struct {
	root       string
	extensions []string
	watch      bool
	volume     string
	theme      string
	logLevel   string
	logFile    string
}

func answersFrom(cfg *config.Config) *setupAnswers {
	return &setupAnswers{
		root:       cfg.Library.Root,
		extensions: append([]string(nil), cfg.Library.Extensions...),
		watch:      cfg.Library.Watch,
		volume:     strconv.Itoa(int(cfg.Audio.Volume*100 + 0.5)),
		theme:      cfg.TUI.Theme,
		logLevel:   cfg.Log.Level,
		logFile:    cfg.Log.File,
	}
}

// apply copies the answers into cfg.
func (a *setupAnswers) apply(cfg *config.Config) error {
	volume, err := parseVolume(a.volume)
	if err != nil {
		return err
	}
	cfg.Library.Root = strings.TrimSpace(a.root)
	cfg.Library.Extensions = a.extensions
	cfg.Library.Watch = a.watch
	cfg.Audio.Volume = volume
	cfg.TUI.Theme = a.theme
	cfg.Log.Level = a.logLevel
	cfg.Log.File = strings.TrimSpace(a.logFile)
	return nil
}

// parseVolume reads a percentage between 0 and 100 as a level.
func parseVolume(s string) (float64, error) {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "%")))
	if err != nil || n < 0 || n > 100 {
		return 0, fmt.Errorf("volume must be a whole number between 0 and 100")
	}
	return float64(n) / 100, nil
}

func validateFolder(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("folder not found")
	}
	if !info.IsDir() {
		return fmt.Errorf("not a folder")
	}
	return nil
}

// RunSetup asks for the main settings, starting from the values in cfg, and
// writes the answers back into it.
func RunSetup(cfg *config.Config) error {
	a := answersFrom(cfg)

	extOptions := make([]huh.Option[string], 0, len(config.DefaultExtensions))
	for _, ext := range config.DefaultExtensions {
		extOptions = append(extOptions, huh.NewOption(ext, ext))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Music folder").
				Description("Opened when deck starts without a folder argument").
				Value(&a.root).
				Validate(validateFolder),
			huh.NewMultiSelect[string]().
				Title("File types").
				Options(extOptions...).
				Value(&a.extensions).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one file type")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Rescan when files change?").
				Value(&a.watch),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Starting volume (%)").
				Value(&a.volume).
				Validate(func(s string) error {
					_, err := parseVolume(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions("auto", "dark", "light")...).
				Value(&a.theme),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&a.logLevel),
			huh.NewInput().
				Title("Log file").
				Description("Leave empty to disable file logging").
				Value(&a.logFile),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	return a.apply(cfg)
}
