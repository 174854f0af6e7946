package llm

// TrackNamePrompt instructs the model to recover artist and title from a
// filename and whatever tag fragments exist.
const TrackNamePrompt = `You help a DJ clean up a music library.
You receive an audio filename and, when available, partial artist or title tags.
Infer the most likely artist and track title.
Rules:
- Drop track numbers, bitrate markers, site names, and words like "official video" or "lyrics".
- Keep remix, edit, and featuring credits in the title, e.g. "Song (Extended Mix)".
- Use normal capitalization; do not shout in all caps.
- Never include a file extension.
Respond with JSON only: {"artist": "...", "title": "..."}`

// SummaryPrompt instructs the model to summarize a transcript.
const SummaryPrompt = `You summarize transcripts of audio recordings.
Write a concise summary of the main points in the speaker's language, at most five sentences.
Respond with JSON only: {"summary": "..."}`
