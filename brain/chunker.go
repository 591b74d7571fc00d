package brain

import (
	"strings"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// ChunkText splits text into bounded, lightly overlapping chunks suitable for
// individual embedding. Sentences (terminated by '.', '!' or '?') are
// accumulated greedily until the next one would push the chunk past
// maxChunkSize characters; the following chunk is then seeded with the
// trailing overlapHint/10 words of the closed one. The overlap is a cheap
// word-count heuristic rather than a byte-exact window, kept as-is for
// compatibility with already-ingested documents. A single sentence longer
// than maxChunkSize passes through as its own oversized chunk.
func ChunkText(text string, maxChunkSize, overlapHint int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultChunkSize
	}
	if overlapHint < 0 {
		overlapHint = DefaultChunkOverlap
	}

	var chunks []string
	var current string
	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if strings.Trim(sentence, ".!? \t\r\n") == "" {
			continue
		}

		if current == "" {
			current = sentence
			continue
		}

		if len(current)+1+len(sentence) > maxChunkSize {
			chunks = append(chunks, current)
			if seed := trailingWords(current, overlapHint/10); seed != "" {
				current = seed + " " + sentence
			} else {
				current = sentence
			}
		} else {
			current += " " + sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

// splitSentences cuts text after each '.', '!' or '?', keeping the
// terminator with its sentence. Trailing text without a terminator is
// returned as a final unit.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentences = append(sentences, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		sentences = append(sentences, b.String())
	}
	return sentences
}

func trailingWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ")
}
