// Package chunker splits long text into overlapping windows for
// ingestion, preferring paragraph and sentence boundaries over hard
// character cuts.
package chunker

import (
	"strings"
	"unicode/utf8"

	"vindex/internal/domain"
)

// boundaryBacktrack is how far from the end of a window a boundary may
// sit and still win over the hard character cut.
const boundaryBacktrack = 200

// Boundary separators in preference order. The separator itself stays
// in the emitted chunk.
var boundaries = []string{"\n\n", ". ", "\n"}

// Chunker produces windows of at most MaxChars characters that overlap
// by Overlap characters. A non-positive MaxChars disables splitting.
type Chunker struct {
	maxChars int
	overlap  int
}

// New creates a chunker. Negative overlap is treated as zero.
func New(maxChars, overlap int) *Chunker {
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{maxChars: maxChars, overlap: overlap}
}

// Split cuts text into chunks with their offsets into the (BOM-stripped)
// input. Cuts always land on rune boundaries, so every chunk is valid
// UTF-8. Offsets are monotonically non-decreasing, whitespace-only
// windows are skipped, and the cursor always advances so the loop
// terminates for every input. When a boundary cut leaves a window
// shorter than the overlap, the next chunk starts at the cut with no
// overlap rather than re-reading the same window.
func (c *Chunker) Split(text string) []domain.Chunk {
	text = strings.TrimPrefix(text, "\ufeff")
	n := len(text)
	if c.maxChars <= 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []domain.Chunk{{Start: 0, End: n, Text: trimmed}}
	}
	var chunks []domain.Chunk
	start := 0
	for start < n {
		end := start + c.maxChars
		if end > n {
			end = n
		}
		if end < n {
			window := text[start:end]
			for _, sep := range boundaries {
				if i := strings.LastIndex(window, sep); i >= 0 && len(window)-i <= boundaryBacktrack {
					end = start + i + len(sep)
					break
				}
			}
			end = runeFloor(text, end, start)
			if end == start {
				_, size := utf8.DecodeRuneInString(text[start:])
				end = start + size
			}
		}
		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, domain.Chunk{Start: start, End: end, Text: chunk})
		}
		if end >= n {
			break
		}
		next := runeFloor(text, end-c.overlap, start)
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// runeFloor walks i back to the nearest rune start, not before lo.
func runeFloor(text string, i, lo int) int {
	for i > lo && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
