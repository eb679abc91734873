package summarize

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

const systemPrompt = `You are a precise video content analyst. You read video transcripts and produce faithful, information-dense summaries. Respond with JSON only, no prose outside the JSON object.`

// summaryPrompt is the single-pass prompt for transcripts that fit in one
// request. The JSON contract matches SummaryContent.
const summaryPrompt = `Summarize this video transcript.

Video title: %s
%s%s
Respond with a JSON object:
{
  "summary": "2-4 paragraph summary of the video",
  "key_points": ["the main points, 3-8 items"],
  "highlights": ["notable quotes or moments, up to 5 items"],
  "topics": ["short topic labels, up to 6 items"]
}

Transcript:
%s`

// chunkPrompt is the map step for long transcripts. Partial notes stay
// prose-shaped so the merge step can reconcile them.
const chunkPrompt = `This is part %d of %d of a video transcript. Extract the substance of this part.

Video title: %s

Respond with a JSON object:
{
  "summary": "condensed summary of this part",
  "key_points": ["points made in this part"],
  "highlights": ["notable quotes or moments in this part"],
  "topics": ["topic labels for this part"]
}

Transcript part:
%s`

// mergePrompt is the reduce step. Parts arrive in transcript order.
const mergePrompt = `Below are summaries of %d consecutive parts of one video, in order. Merge them into a single coherent summary of the whole video. Deduplicate points, keep chronology.

Video title: %s
%s%s
Respond with a JSON object:
{
  "summary": "2-4 paragraph summary of the whole video",
  "key_points": ["the main points, 3-8 items"],
  "highlights": ["notable quotes or moments, up to 5 items"],
  "topics": ["short topic labels, up to 6 items"]
}

Part summaries:
%s`

// maxDescChars caps how much of the channel-written description rides along
// as context. Descriptions are often link dumps past the first paragraph.
const maxDescChars = 500

func languageLine(lang string) string {
	if lang == "" {
		return ""
	}
	return fmt.Sprintf("Write the summary in %s.\n", lang)
}

func descriptionLine(desc string) string {
	if desc == "" {
		return ""
	}
	return fmt.Sprintf("Video description: %s\n", engine.TruncateAtWord(desc, maxDescChars))
}

func buildSummaryPrompt(title, desc, lang, transcript string) string {
	return fmt.Sprintf(summaryPrompt, title, descriptionLine(desc), languageLine(lang), transcript)
}

func buildChunkPrompt(title string, part, total int, chunkText string) string {
	return fmt.Sprintf(chunkPrompt, part, total, title, chunkText)
}

func buildMergePrompt(title, desc, lang string, parts []string) string {
	var sb strings.Builder
	for i, p := range parts {
		fmt.Fprintf(&sb, "--- Part %d ---\n%s\n", i+1, p)
	}
	return fmt.Sprintf(mergePrompt, len(parts), title, descriptionLine(desc), languageLine(lang), sb.String())
}
