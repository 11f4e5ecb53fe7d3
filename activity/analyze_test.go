package activity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/glimpse/ai"
	aimock "github.com/poiesic/glimpse/ai/mock"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeVideo_SamplesFramesAndMidpointAudio(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t, WithTranscriber(f.transcriber))

	rec, err := idx.AnalyzeVideo(context.Background(), video("v1", 10))
	require.NoError(t, err)
	assert.Equal(t, []float64{2.5, 5, 7.5}, f.decoder.FrameOffsets())
	assert.Equal(t, [][2]float64{{0, 10}}, f.decoder.AudioWindows(), "short videos are transcribed whole")
	assert.Equal(t, core.AssetID("v1"), rec.AssetID)
	assert.InDelta(t, 10, rec.DurationSeconds, 1e-9)
	assert.False(t, rec.IndexedAt.IsZero())
}

func TestAnalyzeVideo_LongVideoWindow(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t, WithTranscriber(f.transcriber))

	_, err := idx.AnalyzeVideo(context.Background(), video("v2", 120))
	require.NoError(t, err)
	assert.Equal(t, [][2]float64{{45, 30}}, f.decoder.AudioWindows())
	assert.Equal(t, []float64{30, 60, 90}, f.decoder.FrameOffsets())
}

func TestAnalyzeVideo_ProbesMissingDuration(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)

	asset := &core.Asset{ID: "v1", Path: "/media/v1.mp4", MediaType: core.MediaTypeVideo}
	rec, err := idx.AnalyzeVideo(context.Background(), asset)
	require.NoError(t, err)
	assert.InDelta(t, 10, rec.DurationSeconds, 1e-9)

	f.decoder.ProbeFunc = func(ctx context.Context, path string) (*media.Probe, error) {
		return nil, errors.New("moov atom not found")
	}
	_, err = idx.AnalyzeVideo(context.Background(), asset)
	assert.ErrorIs(t, err, core.ErrCouldNotLoadVideo)
}

func TestAnalyzeVideo_Errors(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)
	ctx := context.Background()

	_, err := idx.AnalyzeVideo(ctx, &core.Asset{ID: "p1", MediaType: core.MediaTypePhoto})
	assert.ErrorIs(t, err, core.ErrNotAVideo)

	_, err = idx.AnalyzeVideo(ctx, video("v0", 0))
	assert.ErrorIs(t, err, core.ErrCouldNotLoadVideo)

	f.decoder.FrameFunc = func(ctx context.Context, asset *core.Asset, at float64) (ai.Image, error) {
		return ai.Image{}, errors.New("decode error")
	}
	_, err = idx.AnalyzeVideo(ctx, video("v1", 10))
	assert.ErrorIs(t, err, core.ErrFrameExtractionFailed)
}

func TestAnalyzeVideo_AllClassificationsFail(t *testing.T) {
	f := newFixture(t)
	f.classifier.WithClassifyFunc(func(ctx context.Context, img ai.Image) ([]ai.Label, error) {
		return nil, errors.New("model unavailable")
	})
	idx := f.index(t)

	_, err := idx.AnalyzeVideo(context.Background(), video("v1", 10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestAnalyzeVideo_NoAudio(t *testing.T) {
	f := newFixture(t)
	f.decoder.WithoutAudio("v1")
	idx := f.index(t, WithTranscriber(f.transcriber))

	rec, err := idx.AnalyzeVideo(context.Background(), video("v1", 10))
	require.NoError(t, err)
	assert.Nil(t, rec.AudioTranscript)
	assert.Zero(t, f.transcriber.CallCount())
}

func TestAnalyzeVideo_TranscriptionFailure(t *testing.T) {
	f := newFixture(t)
	transcriber := aimock.NewMockTranscriber("").WithTranscribeFunc(
		func(ctx context.Context, audio ai.Audio) (*ai.Transcript, error) {
			return nil, errors.New("whisper down")
		})
	idx := f.index(t, WithTranscriber(transcriber))

	rec, err := idx.AnalyzeVideo(context.Background(), video("v1", 10))
	require.NoError(t, err)
	assert.Nil(t, rec.AudioTranscript)
}

func TestAnalyzeVideo_ScreenRecording(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)

	_, err := idx.AnalyzeVideo(context.Background(), video("v3", 30))
	assert.ErrorIs(t, err, core.ErrSkipAsset)
}

func TestAnalyzeVideo_ChatSummary(t *testing.T) {
	f := newFixture(t)
	chat := aimock.NewMockChatService().WithReplies("  A child jumping rope on the lawn.  ")
	idx := f.index(t, WithTranscriber(f.transcriber), WithChatService(chat))

	rec, err := idx.AnalyzeVideo(context.Background(), video("v1", 10))
	require.NoError(t, err)
	assert.Equal(t, "A child jumping rope on the lawn.", rec.ActivitySummary)
	assert.Contains(t, rec.Keywords, "jumping rope")

	reqs := chat.Requests()
	require.Len(t, reqs, 1)
	assert.Len(t, reqs[0].Images, 3)
	assert.Contains(t, reqs[0].Prompt, "rope, child")
	assert.Contains(t, reqs[0].Prompt, "ninety eight")
}

func TestAnalyzeVideo_ChatFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	chat := aimock.NewMockChatService().WithCompleteFunc(func(ctx context.Context, req ai.ChatRequest) (string, error) {
		return "", errors.New("timeout")
	})
	idx := f.index(t, WithChatService(chat))

	rec, err := idx.AnalyzeVideo(context.Background(), video("v2", 120))
	require.NoError(t, err)
	assert.Equal(t, "Video showing guitar, man.", rec.ActivitySummary)
}

func TestFallbackSummary(t *testing.T) {
	assert.Equal(t, "Video.", FallbackSummary(nil, ""))
	assert.Equal(t, "Video showing a, b, c, d, e.", FallbackSummary([]string{"a", "b", "c", "d", "e", "f"}, " "))
	assert.Equal(t, `Video showing dog. Audio: "good boy"`, FallbackSummary([]string{"dog"}, "good boy"))

	long := strings.Repeat("word ", 40)
	summary := FallbackSummary(nil, long)
	assert.True(t, strings.HasSuffix(summary, `…"`))
	assert.Less(t, len([]rune(summary)), 140)
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords(
		"Two kids are playing guitar and dancing in the kitchen.",
		"happy birthday to you",
		[]string{"Guitar", "Person"},
	)
	assert.Contains(t, got, "playing guitar")
	assert.Contains(t, got, "dancing")
	assert.Contains(t, got, "kitchen")
	assert.Contains(t, got, "birthday")
	assert.Contains(t, got, "guitar")
	assert.Contains(t, got, "person", "labels are kept even when they are stop words")
	assert.NotContains(t, got, "the")
	assert.NotContains(t, got, "two")
	assert.NotContains(t, ExtractKeywords("A cat sat.", "", nil), "cat", "short summary words are dropped")
	assert.True(t, isSortedUnique(got))
}

func isSortedUnique(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] >= s[i] {
			return false
		}
	}
	return true
}

func TestIsScreenRecording(t *testing.T) {
	assert.True(t, isScreenRecording([]string{"Screen", "text"}))
	assert.True(t, isScreenRecording([]string{"screenshot", "font"}))
	assert.False(t, isScreenRecording([]string{"screen", "person"}))
	assert.False(t, isScreenRecording([]string{"screen", "Face"}))
	assert.False(t, isScreenRecording([]string{"dog", "beach"}))
	assert.False(t, isScreenRecording(nil))
}
