package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/glimpse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRun struct {
	outputs map[string][]byte
	err     error
	calls   [][]string
}

func (f *fakeRun) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, f.err
	}
	return f.outputs[name], nil
}

func newTestFFmpeg(t *testing.T, fake *fakeRun) *FFmpeg {
	t.Helper()
	f, err := NewFFmpeg(WithEXIFThumbnails(false))
	require.NoError(t, err)
	f.run = fake.run
	return f
}

const probeJSON = `{
  "streams": [{"codec_type": "video"}, {"codec_type": "audio"}],
  "format": {
    "duration": "12.480000",
    "tags": {
      "creation_time": "2024-07-14T09:30:00.000000Z",
      "com.apple.quicktime.location.ISO6709": "+37.9715+023.7257+100.000/"
    }
  }
}`

func TestFFmpeg_Probe(t *testing.T) {
	fake := &fakeRun{outputs: map[string][]byte{"ffprobe": []byte(probeJSON)}}
	f := newTestFFmpeg(t, fake)

	probe, err := f.Probe(context.Background(), "/media/clip.mov")
	require.NoError(t, err)

	assert.InDelta(t, 12.48, probe.DurationSeconds, 1e-9)
	assert.True(t, probe.HasAudio)
	assert.Equal(t, time.Date(2024, 7, 14, 9, 30, 0, 0, time.UTC), probe.CreatedAt.UTC())
	require.NotNil(t, probe.Location)
	assert.InDelta(t, 37.9715, probe.Location.Latitude, 1e-9)
	assert.InDelta(t, 23.7257, probe.Location.Longitude, 1e-9)
	assert.Equal(t, "/media/clip.mov", fake.calls[0][len(fake.calls[0])-1])
}

func TestFFmpeg_ProbeSilentVideo(t *testing.T) {
	fake := &fakeRun{outputs: map[string][]byte{"ffprobe": []byte(`{"streams": [{"codec_type": "video"}], "format": {"duration": "3.0"}}`)}}
	f := newTestFFmpeg(t, fake)

	probe, err := f.Probe(context.Background(), "/media/clip.mp4")
	require.NoError(t, err)
	assert.False(t, probe.HasAudio)
	assert.Nil(t, probe.Location)
	assert.True(t, probe.CreatedAt.IsZero())
}

func TestFFmpeg_ProbeBadOutput(t *testing.T) {
	fake := &fakeRun{outputs: map[string][]byte{"ffprobe": []byte(`garbage`)}}
	f := newTestFFmpeg(t, fake)

	_, err := f.Probe(context.Background(), "/media/clip.mp4")
	assert.Error(t, err)
}

func TestFFmpeg_Frame(t *testing.T) {
	fake := &fakeRun{outputs: map[string][]byte{"ffmpeg": []byte("jpeg")}}
	f := newTestFFmpeg(t, fake)
	asset := &core.Asset{ID: "v", Path: "/media/clip.mp4", MediaType: core.MediaTypeVideo}

	img, err := f.Frame(context.Background(), asset, 2.5)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, []byte("jpeg"), img.Data)

	args := fake.calls[0]
	assert.Equal(t, "ffmpeg", args[0])
	assert.Contains(t, args, "2.500")
	assert.Contains(t, args, "scale=512:-2")
}

func TestFFmpeg_FrameFailure(t *testing.T) {
	f := newTestFFmpeg(t, &fakeRun{err: errors.New("boom")})
	asset := &core.Asset{ID: "v", Path: "/media/clip.mp4", MediaType: core.MediaTypeVideo}

	_, err := f.Frame(context.Background(), asset, 1)
	assert.ErrorIs(t, err, core.ErrFrameExtractionFailed)

	f = newTestFFmpeg(t, &fakeRun{})
	_, err = f.Frame(context.Background(), asset, 1)
	assert.ErrorIs(t, err, core.ErrFrameExtractionFailed)
}

func TestFFmpeg_ThumbnailOfPhoto(t *testing.T) {
	fake := &fakeRun{outputs: map[string][]byte{"ffmpeg": []byte("small")}}
	f := newTestFFmpeg(t, fake)

	img, err := f.Thumbnail(context.Background(), &core.Asset{ID: "p", Path: "/media/a.png", MediaType: core.MediaTypePhoto})
	require.NoError(t, err)
	assert.Equal(t, []byte("small"), img.Data)
	assert.NotContains(t, fake.calls[0], "-ss")
}

func TestFFmpeg_NoPath(t *testing.T) {
	f := newTestFFmpeg(t, &fakeRun{})
	asset := &core.Asset{ID: "x", MediaType: core.MediaTypeVideo}

	_, err := f.Thumbnail(context.Background(), asset)
	assert.ErrorIs(t, err, ErrNoPath)
	_, err = f.Frame(context.Background(), asset, 0)
	assert.ErrorIs(t, err, ErrNoPath)
	_, err = f.AudioClip(context.Background(), asset, 0, 30)
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestFFmpeg_AudioClip(t *testing.T) {
	fake := &fakeRun{outputs: map[string][]byte{
		"ffprobe": []byte(probeJSON),
		"ffmpeg":  []byte("RIFF"),
	}}
	f := newTestFFmpeg(t, fake)
	asset := &core.Asset{ID: "v", Path: "/media/clip.mov", MediaType: core.MediaTypeVideo}

	audio, err := f.AudioClip(context.Background(), asset, -3, 30)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", audio.MIMEType)
	assert.Equal(t, []byte("RIFF"), audio.Data)

	args := fake.calls[1]
	assert.Contains(t, args, "0.000")
	assert.Contains(t, args, "30.000")
	assert.Contains(t, args, "16000")
}

func TestFFmpeg_AudioClipNoTrack(t *testing.T) {
	fake := &fakeRun{outputs: map[string][]byte{"ffprobe": []byte(`{"streams": [{"codec_type": "video"}], "format": {}}`)}}
	f := newTestFFmpeg(t, fake)

	_, err := f.AudioClip(context.Background(), &core.Asset{ID: "v", Path: "/m.mp4", MediaType: core.MediaTypeVideo}, 0, 30)
	assert.ErrorIs(t, err, ErrNoAudioTrack)
	assert.Len(t, fake.calls, 1)
}

func TestParseISO6709(t *testing.T) {
	tests := []struct {
		in       string
		ok       bool
		lat, lon float64
	}{
		{"+37.9715+023.7257+100.000/", true, 37.9715, 23.7257},
		{"-33.8688+151.2093/", true, -33.8688, 151.2093},
		{"+40-074/", true, 40, -74},
		{"somewhere", false, 0, 0},
		{"+95.0+010.0/", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			coord, ok := ParseISO6709(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.lat, coord.Latitude, 1e-9)
				assert.InDelta(t, tt.lon, coord.Longitude, 1e-9)
			}
		})
	}
}

func TestNewFFmpeg_Options(t *testing.T) {
	_, err := NewFFmpeg(WithThumbnailWidth(8))
	assert.Error(t, err)

	f, err := NewFFmpeg(WithBinaries("/opt/ffmpeg", ""), WithThumbnailWidth(256))
	require.NoError(t, err)
	assert.Equal(t, "/opt/ffmpeg", f.ffmpegPath)
	assert.Equal(t, "ffprobe", f.ffprobePath)
	assert.Equal(t, []string{"-v", "error", "-i", "in.jpg", "-frames:v", "1", "-vf", "scale=256:-2", "-f", "image2pipe", "-vcodec", "mjpeg", "-"}, f.imageArgs("in.jpg", -1))
}
