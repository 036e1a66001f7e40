package summariq

import (
	"fmt"
	"unicode"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// ChunkConfig bounds the windows produced by Split. Sizes are in runes.
type ChunkConfig struct {
	MaxSize int
	Overlap int
}

// DefaultChunkConfig returns the 1000/100 window used for summaries
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{MaxSize: DefaultChunkSize, Overlap: DefaultChunkOverlap}
}

// Validate checks that the window can always advance
func (c ChunkConfig) Validate() error {
	if c.MaxSize <= 0 || c.Overlap <= 0 {
		return fmt.Errorf("%w: max size %d and overlap %d must be positive", ErrInvalidConfig, c.MaxSize, c.Overlap)
	}
	if c.Overlap >= c.MaxSize {
		return fmt.Errorf("%w: overlap %d must be smaller than max size %d", ErrInvalidConfig, c.Overlap, c.MaxSize)
	}
	return nil
}

// Split cuts text into windows of at most cfg.MaxSize runes. Each window
// after the first starts cfg.Overlap runes before the end of the previous
// one. Cuts prefer a paragraph break, then a sentence end, then whitespace.
func Split(text string, cfg ChunkConfig) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}
	if len(runes) <= cfg.MaxSize {
		return []Chunk{{Index: 0, Start: 0, Text: text}}, nil
	}

	var chunks []Chunk
	start := 0
	for {
		end := start + cfg.MaxSize
		if end >= len(runes) {
			chunks = append(chunks, Chunk{Index: len(chunks), Start: start, Text: string(runes[start:])})
			break
		}

		cut := findCut(runes, start, end, cfg.Overlap)
		chunks = append(chunks, Chunk{Index: len(chunks), Start: start, Text: string(runes[start:cut])})
		start = cut - cfg.Overlap
	}

	VerboseLog("Split %d characters into %d chunks (max %d, overlap %d)", len(runes), len(chunks), cfg.MaxSize, cfg.Overlap)
	return chunks, nil
}

// findCut returns the end of the window starting at start. The cut always
// keeps more than overlap runes so the next window starts after start.
func findCut(runes []rune, start, end, overlap int) int {
	minCut := start + overlap + 1

	for cut := end; cut >= minCut && cut-2 >= start; cut-- {
		if runes[cut-1] == '\n' && runes[cut-2] == '\n' {
			return cut
		}
	}

	for cut := end; cut >= minCut; cut-- {
		if isSentenceEnd(runes[cut-1]) && unicode.IsSpace(runes[cut]) {
			return cut
		}
	}

	for cut := end; cut >= minCut; cut-- {
		if unicode.IsSpace(runes[cut-1]) {
			return cut
		}
	}

	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
