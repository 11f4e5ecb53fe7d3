package activity

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/labelindex"
	"github.com/poiesic/glimpse/media"
	"github.com/poiesic/glimpse/vocab"
	"golang.org/x/sync/errgroup"
)

// frameOffsets are the sampled positions as fractions of the duration.
var frameOffsets = []float64{0.25, 0.50, 0.75}

const (
	fallbackLabelCount   = 5
	fallbackSnippetChars = 120
)

// AnalyzeVideo builds the activity record of a video.
//
// Frame classification and transcription run concurrently. A missing audio
// track or a failed transcription leaves AudioTranscript nil; a failed
// summary falls back to one synthesized from labels and transcript.
// Screen recordings return core.ErrSkipAsset.
func (idx *Index) AnalyzeVideo(ctx context.Context, asset *core.Asset) (*core.ActivityRecord, error) {
	if asset.MediaType != core.MediaTypeVideo {
		return nil, fmt.Errorf("%w: %s", core.ErrNotAVideo, asset.ID)
	}

	duration := asset.DurationSeconds
	if duration <= 0 && asset.Path != "" {
		if probe, err := idx.decoder.Probe(ctx, asset.Path); err == nil {
			duration = probe.DurationSeconds
		}
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: %s has no duration", core.ErrCouldNotLoadVideo, asset.ID)
	}

	var (
		frames     []ai.Image
		labels     []string
		transcript *string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		frames, labels, err = idx.classifyFrames(gctx, asset, duration)
		return err
	})
	g.Go(func() error {
		transcript = idx.transcribe(gctx, asset, duration)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if isScreenRecording(labels) {
		idx.logger.Debug("skipping screen recording", "asset", asset.ID, "labels", labels)
		return nil, core.ErrSkipAsset
	}

	text := ""
	if transcript != nil {
		text = *transcript
	}
	summary := idx.summarize(ctx, asset, frames, labels, text)

	return &core.ActivityRecord{
		AssetID:         asset.ID,
		ActivitySummary: summary,
		AudioTranscript: transcript,
		Keywords:        ExtractKeywords(summary, text, labels),
		VisualLabels:    labels,
		DurationSeconds: duration,
		IndexedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}, nil
}

// classifyFrames extracts the sampled frames and unions their labels in
// first-seen order. Fails when no frame can be extracted or every
// classification fails.
func (idx *Index) classifyFrames(ctx context.Context, asset *core.Asset, duration float64) ([]ai.Image, []string, error) {
	var frames []ai.Image
	for _, offset := range frameOffsets {
		frame, err := idx.decoder.Frame(ctx, asset, duration*offset)
		if err != nil {
			idx.logger.Debug("frame extraction failed", "asset", asset.ID, "offset", offset, "err", err)
			continue
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", core.ErrFrameExtractionFailed, asset.ID)
	}

	seen := make(map[string]bool)
	var labels []string
	var lastErr error
	classified := 0
	for _, frame := range frames {
		result, err := idx.classifier.Classify(ctx, frame)
		if err != nil {
			lastErr = err
			idx.logger.Debug("frame classification failed", "asset", asset.ID, "err", err)
			continue
		}
		classified++
		for _, name := range idx.selectLabels(result) {
			key := strings.ToLower(name)
			if !seen[key] {
				seen[key] = true
				labels = append(labels, name)
			}
		}
	}
	if classified == 0 {
		return nil, nil, fmt.Errorf("classifying frames of %s: %w", asset.ID, lastErr)
	}
	return frames, labels, nil
}

// selectLabels keeps labels at or above the threshold, at most maxLabels,
// highest confidence first.
func (idx *Index) selectLabels(labels []ai.Label) []string {
	kept := make([]ai.Label, 0, len(labels))
	for _, l := range labels {
		if l.Confidence >= idx.minConfidence && strings.TrimSpace(l.Name) != "" {
			kept = append(kept, l)
		}
	}
	slices.SortStableFunc(kept, func(a, b ai.Label) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if len(kept) > idx.maxLabels {
		kept = kept[:idx.maxLabels]
	}
	names := make([]string, len(kept))
	for i, l := range kept {
		names[i] = strings.TrimSpace(l.Name)
	}
	return names
}

// transcribe returns the transcript of a window centred on the midpoint, or
// nil when there is no transcriber, no audio track, or transcription fails.
func (idx *Index) transcribe(ctx context.Context, asset *core.Asset, duration float64) *string {
	if idx.transcriber == nil {
		return nil
	}

	length := min(idx.transcriptWindow, duration)
	start := max(0, duration/2-length/2)

	clip, err := idx.decoder.AudioClip(ctx, asset, start, length)
	if err != nil {
		if !errors.Is(err, media.ErrNoAudioTrack) {
			idx.logger.Warn("audio extraction failed", "asset", asset.ID, "err", err)
		}
		return nil
	}

	result, err := idx.transcriber.Transcribe(ctx, clip)
	if err != nil {
		idx.logger.Warn("transcription failed", "asset", asset.ID, "err", err)
		return nil
	}
	text := strings.TrimSpace(result.Text)
	if text == "" {
		return nil
	}
	return &text
}

// summarize asks the chat service for a one or two sentence description.
// It never fails.
func (idx *Index) summarize(ctx context.Context, asset *core.Asset, frames []ai.Image, labels []string, transcript string) string {
	if idx.chat != nil {
		transcriptText := transcript
		if transcriptText == "" {
			transcriptText = "(none)"
		}
		reply, err := idx.chat.Complete(ctx, ai.ChatRequest{
			System:    summarySystemPrompt,
			Prompt:    fmt.Sprintf(summaryUserPrompt, strings.Join(labels, ", "), transcriptText),
			Images:    frames,
			MaxTokens: 120,
		})
		if err == nil && strings.TrimSpace(reply) != "" {
			return strings.TrimSpace(reply)
		}
		idx.logger.Warn("summary failed, using fallback", "asset", asset.ID, "err", err)
	}
	return FallbackSummary(labels, transcript)
}

// FallbackSummary describes a video from its top labels and a transcript snippet.
func FallbackSummary(labels []string, transcript string) string {
	var b strings.Builder
	top := labels
	if len(top) > fallbackLabelCount {
		top = top[:fallbackLabelCount]
	}
	if len(top) > 0 {
		fmt.Fprintf(&b, "Video showing %s.", strings.Join(top, ", "))
	} else {
		b.WriteString("Video.")
	}

	transcript = strings.TrimSpace(transcript)
	if transcript != "" {
		snippet := transcript
		if r := []rune(snippet); len(r) > fallbackSnippetChars {
			snippet = strings.TrimSpace(string(r[:fallbackSnippetChars])) + "…"
		}
		fmt.Fprintf(&b, " Audio: %q", snippet)
	}
	return b.String()
}

// ExtractKeywords returns the sorted, de-duplicated union of known activity
// phrases found in the summary or transcript, summary words of four or more
// letters, transcript words, and lowercase visual labels. Stop words are dropped.
func ExtractKeywords(summary, transcript string, labels []string) []string {
	set := make(map[string]bool)

	text := strings.ToLower(summary + " " + transcript)
	for _, phrase := range vocab.ActivityPhrases {
		if strings.Contains(text, phrase) {
			set[phrase] = true
		}
	}
	for _, w := range vocab.Tokenize(summary, 4) {
		set[w] = true
	}
	for _, w := range vocab.Tokenize(transcript, 3) {
		set[w] = true
	}
	for _, l := range labels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			set[l] = true
		}
	}

	out := make([]string, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	slices.Sort(out)
	return out
}

// isScreenRecording reports labels that describe a screen or document with
// no people in view.
func isScreenRecording(labels []string) bool {
	screen := false
	for _, l := range labels {
		raw := strings.ToLower(strings.TrimSpace(l))
		n := labelindex.Normalize(l)
		if vocab.PersonLabels[raw] || vocab.PersonLabels[n] {
			return false
		}
		if vocab.ScreenLabels[raw] || vocab.ScreenLabels[n] {
			screen = true
		}
	}
	return screen
}
