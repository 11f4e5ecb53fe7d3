package media

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/poiesic/glimpse/core"
	"github.com/rwcarlsen/goexif/exif"
)

var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".heic": true, ".heif": true,
	".webp": true, ".gif": true, ".tif": true, ".tiff": true, ".dng": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".m4v": true, ".avi": true, ".mkv": true,
	".webm": true, ".3gp": true, ".mts": true,
}

// DefaultExclude skips hidden files and directories and NAS thumbnail folders.
var DefaultExclude = []string{"**/.*", "**/.*/**", "**/@eaDir/**"}

// MediaTypeOf classifies a file by extension. Unknown extensions return MediaTypeAll.
func MediaTypeOf(name string) core.MediaType {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case photoExtensions[ext]:
		return core.MediaTypePhoto
	case videoExtensions[ext]:
		return core.MediaTypeVideo
	default:
		return core.MediaTypeAll
	}
}

// Scanner turns media files into assets.
type Scanner struct {
	include []string
	exclude []string
	prober  Prober
	logger  *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner) error

// WithInclude replaces the include patterns. Patterns are doublestar globs
// relative to the scanned root.
func WithInclude(patterns ...string) ScannerOption {
	return func(s *Scanner) error {
		if err := validatePatterns(patterns); err != nil {
			return err
		}
		s.include = patterns
		return nil
	}
}

// WithExclude replaces the exclude patterns.
func WithExclude(patterns ...string) ScannerOption {
	return func(s *Scanner) error {
		if err := validatePatterns(patterns); err != nil {
			return err
		}
		s.exclude = patterns
		return nil
	}
}

// WithProber reads video duration, creation time and location.
// Without one, videos fall back to the file modification time.
func WithProber(p Prober) ScannerOption {
	return func(s *Scanner) error {
		s.prober = p
		return nil
	}
}

// WithScannerLogger sets a custom logger.
func WithScannerLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) error {
		s.logger = logger
		return nil
	}
}

func validatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// NewScanner creates a scanner that includes every media file not hidden.
func NewScanner(opts ...ScannerOption) (*Scanner, error) {
	s := &Scanner{
		include: []string{"**/*"},
		exclude: DefaultExclude,
		logger:  slog.Default().With("component", "scanner"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Matches reports whether a slash-separated path relative to the scan root
// passes the include and exclude patterns and has a media extension.
func (s *Scanner) Matches(rel string) bool {
	if MediaTypeOf(rel) == core.MediaTypeAll {
		return false
	}
	for _, p := range s.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	for _, p := range s.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Scan walks root and returns one asset per matching media file, ordered by path.
// Unreadable files are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]*core.Asset, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsys := os.DirFS(absRoot)

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range s.include {
		err := doublestar.GlobWalk(fsys, pattern, func(rel string, d fs.DirEntry) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || seen[rel] || !s.Matches(rel) {
				return nil
			}
			seen[rel] = true
			paths = append(paths, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", absRoot, err)
		}
	}
	slices.Sort(paths)

	assets := make([]*core.Asset, 0, len(paths))
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		asset, err := s.Asset(ctx, filepath.Join(absRoot, filepath.FromSlash(rel)))
		if err != nil {
			s.logger.Warn("skipping file", "path", path.Join(absRoot, rel), "err", err)
			continue
		}
		assets = append(assets, asset)
	}
	s.logger.Info("scan complete", "root", absRoot, "assets", len(assets))
	return assets, nil
}

// Asset builds the asset for a single file. Its ID is derived from the
// absolute path so re-imports replace the same record.
func (s *Scanner) Asset(ctx context.Context, file string) (*core.Asset, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	mediaType := MediaTypeOf(absPath)
	if mediaType == core.MediaTypeAll {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, absPath)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnsupportedMedia, absPath)
	}

	asset := &core.Asset{
		ID:        core.IDFromContent(absPath),
		Path:      absPath,
		CreatedAt: info.ModTime().UTC(),
		MediaType: mediaType,
	}

	switch mediaType {
	case core.MediaTypePhoto:
		if meta, err := readPhotoMetadata(absPath); err == nil {
			meta.apply(asset)
		}
	case core.MediaTypeVideo:
		if s.prober != nil {
			probe, err := s.prober.Probe(ctx, absPath)
			if err != nil {
				s.logger.Debug("probe failed", "path", absPath, "err", err)
			} else {
				asset.DurationSeconds = probe.DurationSeconds
				if !probe.CreatedAt.IsZero() {
					asset.CreatedAt = probe.CreatedAt.UTC()
				}
				asset.Location = probe.Location
			}
		}
	}
	return asset, nil
}

// photoMetadata holds what the scanner reads from EXIF.
type photoMetadata struct {
	takenAt  time.Time
	location *core.Coordinate
	lens     string
}

func (m photoMetadata) apply(asset *core.Asset) {
	if !m.takenAt.IsZero() {
		asset.CreatedAt = m.takenAt.UTC()
	}
	if m.location != nil {
		asset.Location = m.location
	}
	asset.IsSelfie = IsFrontCamera(m.lens)
}

// IsFrontCamera reports whether an EXIF lens model names a front-facing camera,
// e.g. "iPhone 13 front camera 2.71mm f/2.2".
func IsFrontCamera(lens string) bool {
	return strings.Contains(strings.ToLower(lens), "front")
}

func readPhotoMetadata(path string) (photoMetadata, error) {
	var meta photoMetadata

	f, err := os.Open(path)
	if err != nil {
		return meta, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return meta, err
	}

	if t, err := x.DateTime(); err == nil {
		meta.takenAt = t
	}
	if lat, lon, err := x.LatLong(); err == nil && core.ValidateCoordinate(lat, lon) == nil {
		meta.location = &core.Coordinate{Latitude: lat, Longitude: lon}
	}
	if lens, err := x.Get(exif.LensModel); err == nil {
		if s, err := lens.StringVal(); err == nil {
			meta.lens = s
		}
	}
	return meta, nil
}
