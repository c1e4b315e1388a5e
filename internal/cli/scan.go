package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/tessro/deck/internal/core"
	"github.com/tessro/deck/internal/library"
	"github.com/tessro/deck/internal/wizard"
)

var (
	scanNoTags bool
	scanQuiet  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "List the playable files in a folder",
	Long: `Scan a folder tree the way the player does and list what it would play,
in order. Files whose name already appeared in another folder are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanNoTags, "no-tags", false, "do not read title/artist tags")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "hide the progress spinner")
	rootCmd.AddCommand(scanCmd)
}

type trackInfo struct {
	Index  int    `json:"index"`
	Path   string `json:"path"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}

type scanResult struct {
	Root   string      `json:"root"`
	Count  int         `json:"count"`
	Bytes  int64       `json:"bytes"`
	Tracks []trackInfo `json:"tracks"`
}

func runScan(cmd *cobra.Command, args []string) error {
	root := wizard.ResolveRoot(args, cfg.Library.Root)
	if root == "" {
		root = "."
	}

	var opts []library.ScanOption
	if scanNoTags {
		opts = append(opts, library.WithMetadataReader(nil))
	}

	if !scanQuiet && !JSONOutput() {
		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		opts = append(opts, library.WithProgress(func(found int) {
			_ = bar.Set(found)
		}))
	}

	playlist, err := library.Scan(cmd.Context(), root, cfg.Library.Extensions, opts...)
	if err != nil {
		return err
	}

	result := summarize(playlist)

	if JSONOutput() {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := cmd.OutOrStdout()
	if result.Count == 0 {
		fmt.Fprintf(out, "No playable files in %s\n", result.Root)
		return nil
	}

	table := NewTableWriter(out, "#", "TITLE", "ARTIST", "SIZE", "PATH")
	for _, t := range result.Tracks {
		title := t.Title
		if title == "" {
			title = t.Name
		}
		table.Row(
			fmt.Sprintf("%d", t.Index+1),
			TruncateString(title, 40),
			TruncateString(t.Artist, 24),
			humanize.Bytes(uint64(t.Size)),
			t.Path,
		)
	}
	table.Flush()

	fmt.Fprintf(out, "\n%s tracks, %s in %s\n",
		humanize.Comma(int64(result.Count)),
		humanize.Bytes(uint64(result.Bytes)),
		result.Root)
	return nil
}

func summarize(p *core.Playlist) scanResult {
	result := scanResult{
		Root:   p.Root,
		Count:  p.Len(),
		Tracks: make([]trackInfo, 0, p.Len()),
	}
	for i, t := range p.Tracks {
		meta := t.Metadata()
		result.Bytes += t.Size
		result.Tracks = append(result.Tracks, trackInfo{
			Index:  i,
			Path:   t.Path,
			Name:   t.DisplayName(),
			Size:   t.Size,
			Title:  meta.Title,
			Artist: meta.Artist,
			Album:  meta.Album,
		})
	}
	return result
}
