package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmunix/hardbound/internal/display"
	"github.com/vmunix/hardbound/pkg/red"
)

// tokensJSON is the JSON form of red.Tokens.
type tokensJSON struct {
	Title     string `json:"title"`
	Volume    string `json:"volume"`
	Subtitle  string `json:"subtitle,omitempty"`
	Year      string `json:"year,omitempty"`
	Author    string `json:"author,omitempty"`
	ASIN      string `json:"asin"`
	Tag       string `json:"tag,omitempty"`
	Extension string `json:"extension,omitempty"`
}

func toTokensJSON(t red.Tokens) tokensJSON {
	return tokensJSON{
		Title:     t.Title,
		Volume:    t.Volume,
		Subtitle:  t.Subtitle,
		Year:      t.Year,
		Author:    t.Author,
		ASIN:      t.ASIN,
		Tag:       t.Tag,
		Extension: t.Ext,
	}
}

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <name>",
		Short: "Show the tokens of a decorated audiobook name",
		Long: `Split a decorated audiobook name into its tokens.

Examples:
  hardbound parse "Mob Psycho vol_3 Side Story (2021) (ONE) {ASIN.B0C34GQRYZ} [User]"
  hardbound parse --ext .m4b --json "Overlord vol_13 {ASIN.B0CW3NF5NY}.m4b"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ext, _ := cmd.Flags().GetString("ext")
			tok, err := red.Parse(args[0], ext)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(toTokensJSON(tok))
			}
			p := a.printer(cmd)
			p.Info(fmt.Sprintf("Parsing: %s", args[0]))
			p.Tokens(tok)
			return nil
		},
	}
	cmd.Flags().String("ext", "", "Extension to strip and carry, e.g. .m4b")
	return cmd
}

// resolutionJSON is the JSON form of a path budget resolution.
type resolutionJSON struct {
	Tokens  tokensJSON `json:"tokens"`
	Dir     string     `json:"dir"`
	Folder  string     `json:"folder"`
	File    string     `json:"file"`
	Phase   string     `json:"phase"`
	Attempt int        `json:"attempt"`
	Length  int        `json:"length"`
	Cap     int        `json:"cap"`
	Fits    bool       `json:"fits"`
	Steps   []string   `json:"steps,omitempty"`
}

func newPathsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths <src-dir> <dst-root>",
		Short: "Preview the RED folder and file names for a source folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			ext, _ := cmd.Flags().GetString("ext")
			r := a.resolver()
			tok, res, err := r.ResolveDir(a.resolveSrc(args[0]), args[1], ext)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resolutionJSON{
					Tokens: toTokensJSON(tok), Dir: res.Dir, Folder: res.Folder, File: res.File,
					Phase: res.Phase.String(), Attempt: res.Attempt, Length: res.Length,
					Cap: r.Cap(), Fits: res.Fits(r.Cap()), Steps: res.Steps,
				})
			}
			p := a.printer(cmd)
			explain(p, tok, res, r.Cap())
			return nil
		},
	}
	cmd.Flags().String("ext", "", "Audio extension (default: detected from the folder)")
	return cmd
}

func explain(p *display.Printer, tok red.Tokens, res red.Resolution, limit int) {
	p.Section("tokens")
	p.Tokens(tok)
	p.Section("torrent path")
	p.Resolution(res, limit)
	if !res.Fits(limit) {
		p.Warn(fmt.Sprintf("path is %d characters, over the %d cap", res.Length, limit))
	}
}
