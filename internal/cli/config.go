package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/deck/internal/config"
	deckerrors "github.com/tessro/deck/internal/errors"
	"github.com/tessro/deck/internal/wizard"
)

var (
	configInitInteractive bool
	configInitForce       bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing deck configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file with default values.

With --interactive, a short form asks for the music folder, file types,
volume, theme and logging before the file is written.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  library.root          Music folder opened by default
  library.extensions    Comma-separated file types (e.g. .mp3,.flac)
  library.watch         Rescan when files change (true/false)
  audio.sample_rate     Output sample rate in Hz
  audio.buffer_ms       Output buffer length in milliseconds
  audio.volume          Starting volume, 0 to 1 (above 1 amplifies)
  tui.theme             auto, dark or light
  tui.refresh_interval  Progress refresh interval in milliseconds
  log.level             debug, info, warn or error
  log.file              Log file path (empty disables file logging)
  log.max_size_mb       Rotate the log file at this size
  log.max_backups       Rotated files to keep
  log.max_age_days      Days to keep rotated files
  log.compress          Gzip rotated files (true/false)

Examples:
  deck config set library.root ~/Music
  deck config set audio.volume 0.3`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitInteractive, "interactive", "i", false, "answer a few questions instead of writing defaults")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	}

	encoder := toml.NewEncoder(cmd.OutOrStdout())
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), getConfigPath())
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w at %s", deckerrors.ErrConfigNotFound, configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !configInitForce {
		return deckerrors.WithSuggestion(
			fmt.Errorf("config file already exists at %s", configPath),
			"Use --force to overwrite it, or 'deck config set' to change single values")
	}

	newCfg := config.Default()
	if configInitInteractive {
		if !prompter().CanInteract() {
			return deckerrors.WithSuggestion(
				fmt.Errorf("--interactive: %w", wizard.ErrNotInteractive),
				"Run 'deck config init' without --interactive, then 'deck config set' to change values")
		}
		if err := wizard.RunSetup(newCfg); err != nil {
			return err
		}
		if err := newCfg.Validate(); err != nil {
			return fmt.Errorf("%w: %w", deckerrors.ErrInvalidConfig, err)
		}
	}

	if err := writeConfigFile(configPath, newCfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if JSONOutput() {
		return json.NewEncoder(out).Encode(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Fprintf(out, "Created config file: %s\n", configPath)
	if newCfg.Library.Root == "" {
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Set your music folder: deck config set library.root ~/Music")
		fmt.Fprintln(out, "  2. Start the player: deck ui")
	}
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.Path()
}

// configKeys maps each settable key to the parser for its value.
var configKeys = map[string]func(string) (interface{}, error){
	"library.root":         parseString,
	"library.extensions":   parseList,
	"library.watch":        parseBool,
	"audio.sample_rate":    parseInt,
	"audio.buffer_ms":      parseInt,
	"audio.volume":         parseFloat,
	"tui.theme":            parseString,
	"tui.refresh_interval": parseInt,
	"log.level":            parseString,
	"log.file":             parseString,
	"log.max_size_mb":      parseInt,
	"log.max_backups":      parseInt,
	"log.max_age_days":     parseInt,
	"log.compress":         parseBool,
}

func parseString(v string) (interface{}, error) { return v, nil }

func parseBool(v string) (interface{}, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("value must be true or false")
	}
	return b, nil
}

func parseInt(v string) (interface{}, error) {
	i, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("value must be an integer")
	}
	return i, nil
}

func parseFloat(v string) (interface{}, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("value must be a number")
	}
	return f, nil
}

func parseList(v string) (interface{}, error) {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("value must list at least one item")
	}
	return out, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	parse, ok := configKeys[key]
	if !ok {
		return deckerrors.WithSuggestion(
			fmt.Errorf("unknown config key %q", key),
			"Run 'deck config set --help' for the list of keys")
	}
	typedValue, err := parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	configPath := getConfigPath()
	rawConfig, err := readRawConfig(configPath)
	if err != nil {
		return err
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		rawConfig[section] = sectionMap
	}
	sectionMap[field] = typedValue

	if err := validateRaw(rawConfig); err != nil {
		return err
	}
	if err := writeConfigFile(configPath, rawConfig); err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// readRawConfig returns the file as a generic TOML map, or an empty map if
// the file does not exist yet.
func readRawConfig(path string) (map[string]interface{}, error) {
	rawConfig := make(map[string]interface{})

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return rawConfig, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if _, err := toml.Decode(string(data), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return rawConfig, nil
}

// validateRaw checks that rawConfig, once defaults are applied, is valid.
func validateRaw(rawConfig map[string]interface{}) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rawConfig); err != nil {
		return err
	}

	check := &config.Config{Audio: config.AudioConfig{Volume: config.Default().Audio.Volume}}
	if _, err := toml.Decode(buf.String(), check); err != nil {
		return fmt.Errorf("%w: %w", deckerrors.ErrInvalidConfig, err)
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %w", deckerrors.ErrInvalidConfig, err)
	}
	return nil
}

func writeConfigFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Deck Configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
