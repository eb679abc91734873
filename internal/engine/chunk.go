package engine

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Transcript chunking for length-limited summarization backends.
// Split preference: paragraph > sentence > whitespace > hard character cut.
// Deterministic: same text and budget always produce the same boundaries.

var (
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	sentenceRe  = regexp.MustCompile(`[.!?…。！？]+['")\]]*(\s+|$)`)
)

// EstimateTokens is the chars/4 heuristic used to size chunks against model
// context budgets. Intentionally rough; budgets are set conservatively.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// SplitText splits text into chunks of at most maxChunkSize bytes, preferring
// paragraph boundaries, then sentence boundaries, then whitespace, falling
// back to a hard cut only inside a run with no whitespace at all.
// Concatenating the chunks reproduces the input up to whitespace
// normalization; no chunk is empty.
func SplitText(text string, maxChunkSize int) ([]Chunk, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d", ErrInvalidArgument, maxChunkSize)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var units []string
	for _, para := range paragraphRe.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= maxChunkSize {
			units = append(units, para)
			continue
		}
		units = append(units, splitOversized(para, maxChunkSize)...)
	}

	return packUnits(units, maxChunkSize), nil
}

// packUnits greedily packs units into chunks without crossing the budget.
// Units are joined with blank lines so paragraph structure survives for the
// summarization prompt.
func packUnits(units []string, maxChunkSize int) []Chunk {
	const sep = "\n\n"

	var chunks []Chunk
	var b strings.Builder

	flush := func() {
		if b.Len() == 0 {
			return
		}
		text := b.String()
		chunks = append(chunks, Chunk{
			Index:         len(chunks),
			Text:          text,
			TokenEstimate: EstimateTokens(text),
		})
		b.Reset()
	}

	for _, u := range units {
		if b.Len() > 0 && b.Len()+len(sep)+len(u) > maxChunkSize {
			flush()
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(u)
	}
	flush()

	return chunks
}

// splitOversized breaks one oversized paragraph into budget-sized pieces,
// first at sentence boundaries, then at whitespace, then by hard cut.
func splitOversized(para string, maxChunkSize int) []string {
	var out []string
	var b strings.Builder

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}

	for _, sent := range splitSentences(para) {
		if len(sent) > maxChunkSize {
			flush()
			out = append(out, splitByWhitespace(sent, maxChunkSize)...)
			continue
		}
		if b.Len() > 0 && b.Len()+1+len(sent) > maxChunkSize {
			flush()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sent)
	}
	flush()

	return out
}

// splitSentences splits text at sentence-ending punctuation, keeping the
// punctuation with the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		sent := strings.TrimSpace(text[start:loc[1]])
		if sent != "" {
			sentences = append(sentences, sent)
		}
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// splitByWhitespace packs words into budget-sized pieces. A single word
// longer than the budget is hard-cut at a rune boundary; there is no other
// boundary left to respect.
func splitByWhitespace(text string, maxChunkSize int) []string {
	var out []string
	var b strings.Builder

	flush := func() {
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		for len(word) > maxChunkSize {
			flush()
			cut := hardCut(word, maxChunkSize)
			out = append(out, word[:cut])
			word = word[cut:]
		}
		if word == "" {
			continue
		}
		if b.Len() > 0 && b.Len()+1+len(word) > maxChunkSize {
			flush()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(word)
	}
	flush()

	return out
}

// hardCut returns the largest cut position at most max that does not split
// a multibyte rune. A rune wider than the budget itself is still split;
// the budget wins.
func hardCut(word string, max int) int {
	cut := max
	for cut > 0 && !utf8.RuneStart(word[cut]) {
		cut--
	}
	if cut == 0 {
		return max
	}
	return cut
}
