package activity

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/labelindex"
	"github.com/poiesic/glimpse/vocab"
)

const describeTranscriptChars = 160

// Search returns the videos showing an activity, sorted by ID.
//
// The activity is expanded with its synonyms and matched against keywords
// exactly or by substring in either direction. With no keyword match the
// raw summaries and transcripts are searched. When more than one video
// matches, the chat service is asked which truly show the activity; if it
// fails or selects nothing the unrefined matches are returned.
func (idx *Index) Search(ctx context.Context, activity string) ([]core.AssetID, error) {
	terms := vocab.ExpandActivity(activity)
	if len(terms) == 0 {
		return nil, nil
	}

	matches := idx.matchKeywords(terms)
	if len(matches) == 0 {
		matches = idx.matchText(terms)
	}
	if len(matches) <= 1 || idx.chat == nil {
		return matches.Sorted(), nil
	}

	candidates := matches.Sorted()
	refined, err := idx.refine(ctx, activity, candidates)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		idx.logger.Warn("activity refinement failed, using keyword matches", "activity", activity, "err", err)
		return candidates, nil
	}
	if len(refined) == 0 {
		idx.logger.Debug("refinement selected nothing, using keyword matches", "activity", activity)
		return candidates, nil
	}
	return refined, nil
}

func (idx *Index) matchKeywords(terms []string) core.IDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := core.NewIDSet()
	for kw, ids := range idx.keywords {
		for _, term := range terms {
			if keywordMatches(kw, term) {
				for id := range ids {
					result.Add(id)
				}
				break
			}
		}
	}
	return result
}

func keywordMatches(keyword, term string) bool {
	if keyword == term {
		return true
	}
	if len(term) >= 3 && strings.Contains(keyword, term) {
		return true
	}
	return len(keyword) >= 4 && strings.Contains(term, keyword)
}

func (idx *Index) matchText(terms []string) core.IDSet {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := core.NewIDSet()
	for id, rec := range idx.records {
		text := strings.ToLower(rec.ActivitySummary + " " + rec.Transcript())
		for _, term := range terms {
			if strings.Contains(text, term) {
				result.Add(id)
				break
			}
		}
	}
	return result
}

// describe renders a record for a numbered prompt list.
func describe(rec *core.ActivityRecord) string {
	desc := strings.ReplaceAll(rec.ActivitySummary, "\n", " ")
	if t := strings.TrimSpace(rec.Transcript()); t != "" {
		if r := []rune(t); len(r) > describeTranscriptChars {
			t = string(r[:describeTranscriptChars]) + "…"
		}
		desc += fmt.Sprintf(" (audio: %q)", t)
	}
	return desc
}

func (idx *Index) describeAll(ids []core.AssetID) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]string, len(ids))
	for i, id := range ids {
		if rec, ok := idx.records[id]; ok {
			out[i] = describe(rec)
		}
	}
	return out
}

// refine asks the chat service which candidates show the activity.
func (idx *Index) refine(ctx context.Context, activity string, candidates []core.AssetID) ([]core.AssetID, error) {
	reply, err := idx.chat.Complete(ctx, ai.ChatRequest{
		System:    refineSystemPrompt,
		Prompt:    fmt.Sprintf(refineUserPrompt, activity, ai.FormatNumbered(idx.describeAll(candidates))) + ai.SelectionInstructions,
		MaxTokens: 64,
	})
	if err != nil {
		return nil, err
	}
	sel := ai.ParseSelection(reply, len(candidates))
	if sel.Empty() {
		return nil, nil
	}
	return pick(candidates, sel), nil
}

func pick(candidates []core.AssetID, sel ai.Selection) []core.AssetID {
	picked := core.NewIDSet()
	for _, i := range sel.Indices {
		picked.Add(candidates[i])
	}
	return picked.Sorted()
}

// SearchWithLLM sends the raw query and every indexed summary to the chat
// service and returns the videos it picks. A "none" reply is an empty
// result. Any other failure falls back to Search(activity).
func (idx *Index) SearchWithLLM(ctx context.Context, rawQuery, activity string) ([]core.AssetID, error) {
	if idx.chat == nil {
		return idx.Search(ctx, activity)
	}

	idx.mu.RLock()
	all := core.NewIDSet()
	for id := range idx.records {
		all.Add(id)
	}
	idx.mu.RUnlock()
	if len(all) == 0 {
		return nil, nil
	}

	candidates := all.Sorted()
	reply, err := idx.chat.Complete(ctx, ai.ChatRequest{
		System:    semanticSystemPrompt,
		Prompt:    fmt.Sprintf(semanticUserPrompt, rawQuery, ai.FormatNumbered(idx.describeAll(candidates))) + ai.SelectionInstructions,
		MaxTokens: 128,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		idx.logger.Warn("semantic video search failed, using keyword search", "query", rawQuery, "err", err)
		return idx.Search(ctx, activity)
	}

	sel := ai.ParseSelection(reply, len(candidates))
	if sel.None {
		return nil, nil
	}
	if len(sel.Indices) == 0 {
		idx.logger.Warn("unusable semantic search reply, using keyword search", "query", rawQuery, "reply", reply)
		return idx.Search(ctx, activity)
	}
	return pick(candidates, sel), nil
}

// SearchLabels returns videos carrying any of the labels, sorted by ID.
func (idx *Index) SearchLabels(labels []string) []core.AssetID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := core.NewIDSet()
	for _, l := range labels {
		for id := range idx.videoLabels[labelindex.Normalize(l)] {
			result.Add(id)
		}
	}
	return result.Sorted()
}
