package activity

const summarySystemPrompt = `You describe home videos for a personal media search engine.
You are given frames sampled from one video, the labels a vision model saw, and possibly an audio transcript.
Describe the main activity in one or two plain sentences. Name what people are doing (for example "a child jumping rope in a backyard").
Do not speculate about identities. Do not mention frames, labels or transcripts.`

const summaryUserPrompt = `Visual labels: %s
Audio transcript: %s

Describe the activity in this video.`

const refineSystemPrompt = `You match video descriptions to an activity a user is searching for.
Only select videos where the activity truly happens. Reject superficially similar matches: a baby in a jumper is not jumping rope, a guitar hanging on a wall is not playing guitar.`

const refineUserPrompt = `Activity: %s

Videos:
%s
` + "\n"

const semanticSystemPrompt = `You pick the home videos that match a user's search.
Read each numbered video description and select only the ones that satisfy the request.`

const semanticUserPrompt = `Search: %s

Videos:
%s
` + "\n"
