package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	// DefaultThumbnailWidth is the width frames and thumbnails are scaled to.
	DefaultThumbnailWidth = 512

	jpegMIME = "image/jpeg"
	wavMIME  = "audio/wav"
)

// runFunc executes an external program and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// FFmpeg implements Decoder by shelling out to ffmpeg and ffprobe.
// Photo thumbnails come from the embedded EXIF thumbnail when present.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	width       int
	useEXIF     bool
	run         runFunc
	logger      *slog.Logger
}

var _ Decoder = (*FFmpeg)(nil)

// FFmpegOption configures an FFmpeg decoder.
type FFmpegOption func(*FFmpeg) error

// WithBinaries overrides the ffmpeg and ffprobe executables.
func WithBinaries(ffmpegPath, ffprobePath string) FFmpegOption {
	return func(f *FFmpeg) error {
		if ffmpegPath != "" {
			f.ffmpegPath = ffmpegPath
		}
		if ffprobePath != "" {
			f.ffprobePath = ffprobePath
		}
		return nil
	}
}

// WithThumbnailWidth sets the scaled width of frames and thumbnails.
func WithThumbnailWidth(width int) FFmpegOption {
	return func(f *FFmpeg) error {
		if width < 32 {
			return fmt.Errorf("thumbnail width %d too small", width)
		}
		f.width = width
		return nil
	}
}

// WithEXIFThumbnails toggles the embedded EXIF thumbnail fast path for photos.
func WithEXIFThumbnails(enabled bool) FFmpegOption {
	return func(f *FFmpeg) error {
		f.useEXIF = enabled
		return nil
	}
}

// WithDecoderLogger sets a custom logger.
func WithDecoderLogger(logger *slog.Logger) FFmpegOption {
	return func(f *FFmpeg) error {
		f.logger = logger
		return nil
	}
}

// NewFFmpeg creates a decoder that looks up ffmpeg and ffprobe on PATH.
func NewFFmpeg(opts ...FFmpegOption) (*FFmpeg, error) {
	f := &FFmpeg{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		width:       DefaultThumbnailWidth,
		useEXIF:     true,
		run:         runCommand,
		logger:      slog.Default().With("component", "ffmpeg"),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w (output: %s)", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

type probeOutput struct {
	Format struct {
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
}

// Probe reads the duration, audio presence, creation time and location of a file.
func (f *FFmpeg) Probe(ctx context.Context, path string) (*Probe, error) {
	out, err := f.run(ctx, f.ffprobePath,
		"-v", "error", "-print_format", "json", "-show_format", "-show_streams", path)
	if err != nil {
		return nil, err
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (*Probe, error) {
	var raw probeOutput
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("decoding ffprobe output: %w", err)
	}

	probe := &Probe{}
	if raw.Format.Duration != "" {
		if d, err := strconv.ParseFloat(raw.Format.Duration, 64); err == nil && d > 0 {
			probe.DurationSeconds = d
		}
	}
	for _, s := range raw.Streams {
		if s.CodecType == "audio" {
			probe.HasAudio = true
		}
	}

	tags := make(map[string]string, len(raw.Format.Tags))
	for k, v := range raw.Format.Tags {
		tags[strings.ToLower(k)] = v
	}
	if created, ok := tags["creation_time"]; ok {
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			probe.CreatedAt = t
		}
	}
	for _, key := range []string{"com.apple.quicktime.location.iso6709", "location"} {
		if loc, ok := tags[key]; ok {
			if coord, ok := ParseISO6709(loc); ok {
				probe.Location = coord
				break
			}
		}
	}
	return probe, nil
}

var iso6709Pattern = regexp.MustCompile(`^([+-]\d+(?:\.\d+)?)([+-]\d+(?:\.\d+)?)`)

// ParseISO6709 parses the decimal-degree form used by phone cameras,
// e.g. "+37.9715+023.7257+100.000/".
func ParseISO6709(s string) (*core.Coordinate, bool) {
	m := iso6709Pattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return nil, false
	}
	lat, errLat := strconv.ParseFloat(m[1], 64)
	lon, errLon := strconv.ParseFloat(m[2], 64)
	if errLat != nil || errLon != nil || core.ValidateCoordinate(lat, lon) != nil {
		return nil, false
	}
	return &core.Coordinate{Latitude: lat, Longitude: lon}, true
}

// Thumbnail returns a scaled JPEG for a photo or the frame one second into a video.
func (f *FFmpeg) Thumbnail(ctx context.Context, asset *core.Asset) (ai.Image, error) {
	if asset.Path == "" {
		return ai.Image{}, ErrNoPath
	}
	if asset.MediaType == core.MediaTypeVideo {
		at := 1.0
		if asset.DurationSeconds > 0 && asset.DurationSeconds < 2 {
			at = asset.DurationSeconds / 2
		}
		return f.Frame(ctx, asset, at)
	}

	if f.useEXIF {
		if thumb, err := exifThumbnail(asset.Path); err == nil {
			return ai.Image{MIMEType: jpegMIME, Data: thumb}, nil
		}
	}

	out, err := f.run(ctx, f.ffmpegPath, f.imageArgs(asset.Path, -1)...)
	if err != nil {
		return ai.Image{}, err
	}
	return ai.Image{MIMEType: jpegMIME, Data: out}, nil
}

// Frame returns the frame at atSeconds as a scaled JPEG.
func (f *FFmpeg) Frame(ctx context.Context, asset *core.Asset, atSeconds float64) (ai.Image, error) {
	if asset.Path == "" {
		return ai.Image{}, ErrNoPath
	}
	out, err := f.run(ctx, f.ffmpegPath, f.imageArgs(asset.Path, atSeconds)...)
	if err != nil {
		return ai.Image{}, fmt.Errorf("%w: %w", core.ErrFrameExtractionFailed, err)
	}
	if len(out) == 0 {
		return ai.Image{}, core.ErrFrameExtractionFailed
	}
	return ai.Image{MIMEType: jpegMIME, Data: out}, nil
}

// imageArgs builds an ffmpeg invocation writing one JPEG to stdout.
// A negative offset reads the first frame.
func (f *FFmpeg) imageArgs(path string, atSeconds float64) []string {
	args := []string{"-v", "error"}
	if atSeconds >= 0 {
		args = append(args, "-ss", formatSeconds(atSeconds))
	}
	return append(args,
		"-i", path,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:-2", f.width),
		"-f", "image2pipe", "-vcodec", "mjpeg", "-")
}

// AudioClip returns length seconds of mono 16 kHz WAV starting at start.
func (f *FFmpeg) AudioClip(ctx context.Context, asset *core.Asset, start, length float64) (ai.Audio, error) {
	if asset.Path == "" {
		return ai.Audio{}, ErrNoPath
	}
	probe, err := f.Probe(ctx, asset.Path)
	if err != nil {
		return ai.Audio{}, err
	}
	if !probe.HasAudio {
		return ai.Audio{}, ErrNoAudioTrack
	}
	if start < 0 {
		start = 0
	}

	out, err := f.run(ctx, f.ffmpegPath,
		"-v", "error",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(length),
		"-i", asset.Path,
		"-vn", "-ac", "1", "-ar", "16000",
		"-f", "wav", "-")
	if err != nil {
		return ai.Audio{}, err
	}
	return ai.Audio{MIMEType: wavMIME, Data: out}, nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

func exifThumbnail(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return nil, err
	}
	return x.JpegThumbnail()
}
