package red

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	// PathCap is the RED limit for folder + "/" + file inside a torrent.
	PathCap = 180

	// TorrentPathSeparator joins folder and file inside a torrent.
	TorrentPathSeparator = "/"

	// ellipsis marks a truncated title.
	ellipsis = "..."
)

// PreferredExtensions is the audio detection order for DetectExtension.
var PreferredExtensions = []string{".m4b", ".m4a", ".mp3", ".flac"}

// DefaultExtension is used when a directory holds no preferred audio file.
const DefaultExtension = ".m4b"

// Phase identifies which trim strategy produced a Resolution.
type Phase int

const (
	PhaseFilename Phase = iota + 1
	PhaseFolder
	PhaseTruncate
)

func (p Phase) String() string {
	switch p {
	case PhaseFilename:
		return "filename"
	case PhaseFolder:
		return "folder"
	case PhaseTruncate:
		return "title_truncation"
	default:
		return "unknown"
	}
}

// filenameMasks are tried in order with the full folder name.
var filenameMasks = []Mask{
	MaskFull,
	{Subtitle: true, Author: true, Tag: true},
	{Subtitle: true, Tag: true},
	{Subtitle: true},
	MaskMinimal,
}

// folderMasks are tried in order with the minimal filename.
var folderMasks = []Mask{
	{Subtitle: true, Year: true, Author: true},
	{Subtitle: true, Author: true},
	{Subtitle: true},
	MaskMinimal,
}

// Resolution is the chosen destination for one item.
type Resolution struct {
	Dir     string // root joined with Folder
	Folder  string
	File    string
	Phase   Phase
	Attempt int // 1-based index within Phase
	Length  int // torrent path length of Folder/File
	Steps   []string
}

// Fits reports whether the resolution is within limit.
func (r Resolution) Fits(limit int) bool {
	return r.Length <= limit
}

// Stem is File without its extension.
func (r Resolution) Stem() string {
	return strings.TrimSuffix(r.File, filepath.Ext(r.File))
}

// TorrentPathLength counts the characters of folder + "/" + file.
// Only the leaf folder and the file count, never the on-disk depth.
func TorrentPathLength(folder, file string) int {
	return utf8.RuneCountInString(folder) + len(TorrentPathSeparator) + utf8.RuneCountInString(file)
}

// ValidateLength reports whether folder/file fits within limit.
func ValidateLength(folder, file string, limit int) bool {
	return TorrentPathLength(folder, file) <= limit
}

// Resolver shrinks names until they fit the path cap.
type Resolver struct {
	limit int
	log   *slog.Logger
}

// NewResolver creates a Resolver. A limit <= 0 means PathCap.
func NewResolver(log *slog.Logger, limit int) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	if limit <= 0 {
		limit = PathCap
	}
	return &Resolver{limit: limit, log: log}
}

// Cap returns the configured path cap.
func (r *Resolver) Cap() int {
	return r.limit
}

// Resolve picks the first candidate whose torrent path fits the cap.
//
// The search is greedy: phase A trims the filename under the full folder
// name, phase B trims the folder under the minimal filename, and phase C
// truncates the title. An earlier candidate always wins over a later one,
// even when the later one would keep more information. Phase C is returned
// even if it still exceeds the cap; that case is logged as trim.failed.
func (r *Resolver) Resolve(t Tokens, root string) Resolution {
	log := r.log.With("asin", t.ASIN, "title", t.Title, "extension", t.Ext, "dst_root", root)
	log.Debug("trim.start", "subtitle", t.Subtitle, "year", t.Year, "author", t.Author, "tag", t.Tag)

	fullFolder := BuildFolderName(t, folderMasks[0])
	for i, m := range filenameMasks {
		file := BuildFilename(t, m)
		n := TorrentPathLength(fullFolder, file)
		log.Debug("trim.try_filename", "attempt", i+1, "filename", file, "folder", fullFolder,
			"path_len", n, "path_cap", r.limit, "within", n <= r.limit)
		if n <= r.limit {
			res := Resolution{
				Dir: filepath.Join(root, fullFolder), Folder: fullFolder, File: file,
				Phase: PhaseFilename, Attempt: i + 1, Length: n, Steps: m.Steps(""),
			}
			r.logOK(log, res)
			return res
		}
	}

	minimalFile := BuildFilename(t, MaskMinimal)
	for j, m := range folderMasks {
		folder := BuildFolderName(t, m)
		n := TorrentPathLength(folder, minimalFile)
		log.Debug("trim.try_folder", "attempt", j+1, "filename", minimalFile, "folder", folder,
			"path_len", n, "path_cap", r.limit, "within", n <= r.limit)
		if n <= r.limit {
			res := Resolution{
				Dir: filepath.Join(root, folder), Folder: folder, File: minimalFile,
				Phase: PhaseFolder, Attempt: j + 1, Length: n,
				Steps: slices.Concat(MaskMinimal.Steps(""), m.Steps("(folder)")),
			}
			r.logOK(log, res)
			return res
		}
	}

	res := r.truncate(log, t, root)
	if !res.Fits(r.limit) {
		log.Error("trim.failed", "folder", res.Folder, "file", res.File,
			"path_len", res.Length, "path_cap", r.limit, "within", false)
		return res
	}
	r.logOK(log, res)
	return res
}

// truncate shortens the title so that folder and file, which share the same
// "<title> - <volume> <asin>" stem, fit together under the cap.
func (r *Resolver) truncate(log *slog.Logger, t Tokens, root string) Resolution {
	essential := fmt.Sprintf(" - %s %s", t.Volume, t.ASIN)
	budget := r.limit - 1 - utf8.RuneCountInString(t.Ext) - 2*utf8.RuneCountInString(essential)
	maxTitle := floorDiv(budget, 2)

	title := t.Title
	if n := utf8.RuneCountInString(title); n > maxTitle {
		title = truncateRunes(title, max(maxTitle-len(ellipsis), 0)) + ellipsis
		log.Debug("trim.title_truncate", "original_title", t.Title, "original_len", n,
			"truncated_title", title, "max_allowed", maxTitle)
	}

	folder := title + essential
	file := folder + t.Ext
	return Resolution{
		Dir: filepath.Join(root, folder), Folder: folder, File: file,
		Phase: PhaseTruncate, Attempt: 1, Length: TorrentPathLength(folder, file),
		Steps: slices.Concat(MaskMinimal.Steps(""), MaskMinimal.Steps("(folder)"), []string{"truncate title"}),
	}
}

func (r *Resolver) logOK(log *slog.Logger, res Resolution) {
	log.Info("trim.ok", "phase", res.Phase.String(), "attempt", res.Attempt,
		"folder", res.Folder, "file", res.File, "path_len", res.Length,
		"path_cap", r.limit, "trim_steps", res.Steps)
}

// ResolveDir tokenizes the leaf name of srcDir and resolves it under root.
// An empty ext is detected from the audio files in srcDir.
func (r *Resolver) ResolveDir(srcDir, root, ext string) (Tokens, Resolution, error) {
	if ext == "" {
		detected, err := DetectExtension(srcDir)
		if err != nil {
			return Tokens{}, Resolution{}, err
		}
		ext = detected
	}
	t, err := Parse(filepath.Base(filepath.Clean(srcDir)), ext)
	if err != nil {
		return Tokens{}, Resolution{}, err
	}
	return t, r.Resolve(t, root), nil
}

// DetectExtension returns the first PreferredExtensions entry present among
// the regular files of dir, or DefaultExtension.
func DetectExtension(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("detect extension: %w", err)
	}
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			present[strings.ToLower(filepath.Ext(e.Name()))] = true
		}
	}
	for _, ext := range PreferredExtensions {
		if present[ext] {
			return ext, nil
		}
	}
	return DefaultExtension, nil
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
