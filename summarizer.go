package summariq

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxReduceDepth   = 2
	DefaultReduceBatchChars = 12000

	partialSeparator = "\n\n"
)

// SummarizerOptions tunes the map-reduce pass
type SummarizerOptions struct {
	Chunk ChunkConfig
	// MaxReduceDepth caps the number of reduce passes. The last pass always
	// combines every remaining partial in one call.
	MaxReduceDepth int
	// ReduceBatchChars bounds the input of a reduce call before the last pass
	ReduceBatchChars int
	// MapConcurrency above 1 issues map calls in parallel
	MapConcurrency int
}

// Summarizer turns a document into one Markdown summary by summarizing each
// chunk and then combining the partial summaries.
type Summarizer struct {
	generator TextGenerator
	opts      SummarizerOptions
}

// NewSummarizer creates a summarizer, filling unset options with defaults
func NewSummarizer(generator TextGenerator, opts SummarizerOptions) *Summarizer {
	if opts.Chunk == (ChunkConfig{}) {
		opts.Chunk = DefaultChunkConfig()
	}
	if opts.MaxReduceDepth <= 0 {
		opts.MaxReduceDepth = DefaultMaxReduceDepth
	}
	if opts.ReduceBatchChars <= 0 {
		opts.ReduceBatchChars = DefaultReduceBatchChars
	}
	if opts.MapConcurrency <= 0 {
		opts.MapConcurrency = 1
	}
	return &Summarizer{generator: generator, opts: opts}
}

// Summarize produces a Markdown summary of text using the given method
func (s *Summarizer) Summarize(ctx context.Context, text string, method SummaryMethod) (string, error) {
	if !method.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	chunks, err := Split(text, s.opts.Chunk)
	if err != nil {
		return "", fmt.Errorf("failed to split text: %w", err)
	}

	log.Printf("Summarizing %d chunks with method %q", len(chunks), method)

	if len(chunks) == 1 {
		summary, err := s.call(ctx, method, chunks[0].Text)
		if err != nil {
			return "", &GenerationError{Phase: PhaseMap, Index: 0, Err: err}
		}
		return summary, nil
	}

	partials, err := s.mapChunks(ctx, method, chunks)
	if err != nil {
		return "", err
	}

	summary, err := s.reduce(ctx, method, partials)
	if err != nil {
		return "", err
	}

	log.Printf("Summary complete: %d chunks reduced to %d characters", len(chunks), len(summary))
	return summary, nil
}

// mapChunks summarizes every chunk. Results keep chunk order regardless of
// the order in which calls finish.
func (s *Summarizer) mapChunks(ctx context.Context, method SummaryMethod, chunks []Chunk) ([]string, error) {
	partials := make([]string, len(chunks))

	if s.opts.MapConcurrency == 1 {
		for i, chunk := range chunks {
			out, err := s.call(ctx, method, chunk.Text)
			if err != nil {
				return nil, &GenerationError{Phase: PhaseMap, Index: chunk.Index, Err: err}
			}
			partials[i] = out
			VerboseLog("Map chunk %d/%d done (%d characters)", i+1, len(chunks), len(out))
		}
		return partials, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MapConcurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			out, err := s.call(gctx, method, chunk.Text)
			if err != nil {
				return &GenerationError{Phase: PhaseMap, Index: chunk.Index, Err: err}
			}
			partials[i] = out
			VerboseLog("Map chunk %d/%d done (%d characters)", i+1, len(chunks), len(out))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return partials, nil
}

// reduce combines partials pass by pass until one remains. Pass numbers in
// errors start at 1.
func (s *Summarizer) reduce(ctx context.Context, method SummaryMethod, partials []string) (string, error) {
	for pass := 1; len(partials) > 1; pass++ {
		limit := s.opts.ReduceBatchChars
		if pass >= s.opts.MaxReduceDepth {
			limit = 0
		}

		groups := groupPartials(partials, limit)
		next := make([]string, 0, len(groups))
		for _, group := range groups {
			out, err := s.call(ctx, method, strings.Join(group, partialSeparator))
			if err != nil {
				return "", &GenerationError{Phase: PhaseReduce, Index: pass, Err: err}
			}
			next = append(next, out)
		}

		VerboseLog("Reduce pass %d: %d partials combined into %d", pass, len(partials), len(next))
		partials = next
	}
	return partials[0], nil
}

// groupPartials splits partials into consecutive groups whose joined length
// stays within limit where possible. Every group holds at least two partials
// so each pass shrinks the list. A limit of 0 yields a single group.
func groupPartials(partials []string, limit int) [][]string {
	if limit <= 0 || len(partials) < 2 {
		return [][]string{partials}
	}

	var groups [][]string
	var current []string
	size := 0
	for _, p := range partials {
		added := len(p)
		if len(current) > 0 {
			added += len(partialSeparator)
		}
		if len(current) >= 2 && size+added > limit {
			groups = append(groups, current)
			current = nil
			size = 0
			added = len(p)
		}
		current = append(current, p)
		size += added
	}

	if len(current) == 1 && len(groups) > 0 {
		last := len(groups) - 1
		groups[last] = append(groups[last], current[0])
	} else {
		groups = append(groups, current)
	}
	return groups
}

func (s *Summarizer) call(ctx context.Context, method SummaryMethod, text string) (string, error) {
	prompt, err := SummaryPrompt(method, text)
	if err != nil {
		return "", err
	}
	return s.generator.Generate(ctx, prompt)
}
