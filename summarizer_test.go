package summariq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// body returns the text that follows the instruction in a summary prompt
func body(prompt string) string {
	_, text, _ := strings.Cut(prompt, "\n\n")
	return text
}

func TestSummarizeInvalidMethod(t *testing.T) {
	gen := &fakeGenerator{}
	s := NewSummarizer(gen, SummarizerOptions{})

	_, err := s.Summarize(context.Background(), "Some text.", SummaryMethod("poetry"))
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("Summarize() error = %v, want ErrUnsupportedMethod", err)
	}
	if gen.calls() != 0 {
		t.Fatalf("generator called %d times, want 0", gen.calls())
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	gen := &fakeGenerator{}
	s := NewSummarizer(gen, SummarizerOptions{})

	for _, text := range []string{"", "   \n\t "} {
		_, err := s.Summarize(context.Background(), text, MethodEasy)
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Summarize(%q) error = %v, want ErrEmptyInput", text, err)
		}
	}
	if gen.calls() != 0 {
		t.Fatalf("generator called %d times, want 0", gen.calls())
	}
}

func TestSummarizeSingleChunk(t *testing.T) {
	gen := &fakeGenerator{respond: func(int, string) (string, error) {
		return "# Notes", nil
	}}
	s := NewSummarizer(gen, SummarizerOptions{})

	got, err := s.Summarize(context.Background(), "A short text about cells.", MethodPareto)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "# Notes" {
		t.Fatalf("Summarize() = %q, want %q", got, "# Notes")
	}
	if gen.calls() != 1 {
		t.Fatalf("generator called %d times, want 1", gen.calls())
	}

	want, _ := SummaryPrompt(MethodPareto, "A short text about cells.")
	if gen.prompt(0) != want {
		t.Fatalf("prompt = %q, want %q", gen.prompt(0), want)
	}
}

func TestSummarizeMapReduce(t *testing.T) {
	text := strings.Repeat("Word ", 100) // 500 runes
	opts := SummarizerOptions{Chunk: ChunkConfig{MaxSize: 100, Overlap: 10}}

	chunks, err := Split(text, opts.Chunk)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	gen := &fakeGenerator{respond: func(call int, prompt string) (string, error) {
		return fmt.Sprintf("P%d", call), nil
	}}
	s := NewSummarizer(gen, opts)

	got, err := s.Summarize(context.Background(), text, MethodEasy)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// Every partial fits the default batch, so one reduce call follows the map phase
	wantCalls := len(chunks) + 1
	if gen.calls() != wantCalls {
		t.Fatalf("generator called %d times, want %d", gen.calls(), wantCalls)
	}
	if want := fmt.Sprintf("P%d", wantCalls); got != want {
		t.Fatalf("Summarize() = %q, want %q", got, want)
	}

	for i, c := range chunks {
		if body(gen.prompt(i)) != c.Text {
			t.Fatalf("map prompt %d does not carry chunk %d", i, i)
		}
	}

	var partials []string
	for i := range chunks {
		partials = append(partials, fmt.Sprintf("P%d", i+1))
	}
	if got := body(gen.prompt(len(chunks))); got != strings.Join(partials, "\n\n") {
		t.Fatalf("reduce prompt body = %q, want partials in chunk order", got)
	}
}

func TestSummarizeReduceDepth(t *testing.T) {
	text := strings.Repeat("Word ", 200) // 1000 runes, 11 chunks
	gen := &fakeGenerator{respond: func(call int, prompt string) (string, error) {
		return strings.Repeat("x", 40), nil
	}}
	s := NewSummarizer(gen, SummarizerOptions{
		Chunk:            ChunkConfig{MaxSize: 100, Overlap: 10},
		MaxReduceDepth:   2,
		ReduceBatchChars: 100,
	})

	if _, err := s.Summarize(context.Background(), text, MethodUnderstanding); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// 11 map calls, pass 1 pairs the partials into 5 groups, pass 2 combines all
	if gen.calls() != 17 {
		t.Fatalf("generator called %d times, want 17", gen.calls())
	}
}

func TestSummarizeReduceDepthOne(t *testing.T) {
	text := strings.Repeat("Word ", 200)
	gen := &fakeGenerator{respond: func(call int, prompt string) (string, error) {
		return strings.Repeat("x", 40), nil
	}}
	s := NewSummarizer(gen, SummarizerOptions{
		Chunk:            ChunkConfig{MaxSize: 100, Overlap: 10},
		MaxReduceDepth:   1,
		ReduceBatchChars: 100,
	})

	if _, err := s.Summarize(context.Background(), text, MethodEasy); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if gen.calls() != 12 {
		t.Fatalf("generator called %d times, want 12", gen.calls())
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestGroupPartials(t *testing.T) {
	tests := []struct {
		name     string
		partials []string
		limit    int
		want     []int
	}{
		{"no limit", repeat("aaaa", 5), 0, []int{5}},
		{"single", repeat("aaaa", 1), 10, []int{1}},
		{"pairs", repeat("aaaa", 4), 10, []int{2, 2}},
		{"trailing singleton merged", repeat("aaaa", 5), 10, []int{2, 3}},
		{"oversized partials still paired", repeat(strings.Repeat("a", 50), 4), 10, []int{2, 2}},
		{"all fit", repeat("a", 6), 100, []int{6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := groupPartials(tt.partials, tt.limit)
			var sizes []int
			total := 0
			for _, g := range groups {
				sizes = append(sizes, len(g))
				total += len(g)
			}
			if fmt.Sprint(sizes) != fmt.Sprint(tt.want) {
				t.Fatalf("group sizes = %v, want %v", sizes, tt.want)
			}
			if total != len(tt.partials) {
				t.Fatalf("groups hold %d partials, want %d", total, len(tt.partials))
			}
		})
	}
}

func TestSummarizeMapError(t *testing.T) {
	text := strings.Repeat("Word ", 100)
	boom := errors.New("boom")
	gen := &fakeGenerator{respond: func(call int, prompt string) (string, error) {
		if call == 3 {
			return "", boom
		}
		return "ok", nil
	}}
	s := NewSummarizer(gen, SummarizerOptions{Chunk: ChunkConfig{MaxSize: 100, Overlap: 10}})

	_, err := s.Summarize(context.Background(), text, MethodEasy)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Summarize() error = %v, want *GenerationError", err)
	}
	if genErr.Phase != PhaseMap || genErr.Index != 2 {
		t.Fatalf("GenerationError = %s/%d, want map/2", genErr.Phase, genErr.Index)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error does not wrap the generator failure")
	}
	if gen.calls() != 3 {
		t.Fatalf("generator called %d times, want 3", gen.calls())
	}
}

func TestSummarizeReduceError(t *testing.T) {
	text := strings.Repeat("Word ", 100)
	opts := SummarizerOptions{Chunk: ChunkConfig{MaxSize: 100, Overlap: 10}}
	chunks, _ := Split(text, opts.Chunk)

	gen := &fakeGenerator{respond: func(call int, prompt string) (string, error) {
		if call > len(chunks) {
			return "", fmt.Errorf("overloaded: %w", ErrTransient)
		}
		return "ok", nil
	}}
	s := NewSummarizer(gen, opts)

	_, err := s.Summarize(context.Background(), text, MethodEasy)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("Summarize() error = %v, want *GenerationError", err)
	}
	if genErr.Phase != PhaseReduce || genErr.Index != 1 {
		t.Fatalf("GenerationError = %s/%d, want reduce/1", genErr.Phase, genErr.Index)
	}
	if !genErr.Transient() {
		t.Fatalf("Transient() = false, want true")
	}
}

func TestSummarizeSingleChunkError(t *testing.T) {
	gen := &fakeGenerator{respond: func(int, string) (string, error) {
		return "", errors.New("bad request")
	}}
	s := NewSummarizer(gen, SummarizerOptions{})

	_, err := s.Summarize(context.Background(), "Short.", MethodEasy)
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Phase != PhaseMap || genErr.Index != 0 {
		t.Fatalf("Summarize() error = %v, want map error for chunk 0", err)
	}
	if genErr.Transient() {
		t.Fatalf("Transient() = true, want false")
	}
}

func TestSummarizeConcurrentMapKeepsOrder(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "w%03d ", i)
	}
	text := sb.String()
	opts := SummarizerOptions{Chunk: ChunkConfig{MaxSize: 100, Overlap: 10}, MapConcurrency: 4}
	chunks, _ := Split(text, opts.Chunk)

	var inFlight, maxInFlight int32
	gen := &fakeGenerator{respond: func(call int, prompt string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		// Echo the chunk index so the reduce input shows the map order
		for _, c := range chunks {
			if body(prompt) == c.Text {
				return fmt.Sprintf("chunk-%d", c.Index), nil
			}
		}
		return "reduced", nil
	}}
	s := NewSummarizer(gen, opts)

	got, err := s.Summarize(context.Background(), text, MethodEasy)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "reduced" {
		t.Fatalf("Summarize() = %q, want %q", got, "reduced")
	}
	if maxInFlight > 4 {
		t.Fatalf("max concurrent calls = %d, want at most 4", maxInFlight)
	}

	var want []string
	for _, c := range chunks {
		want = append(want, fmt.Sprintf("chunk-%d", c.Index))
	}
	last := gen.prompt(gen.calls() - 1)
	if body(last) != strings.Join(want, "\n\n") {
		t.Fatalf("reduce input = %q, want partials in chunk order", body(last))
	}
}

func TestSummarizeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSummarizer(&fakeGenerator{}, SummarizerOptions{})
	_, err := s.Summarize(ctx, "Some text.", MethodEasy)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Summarize() error = %v, want context.Canceled", err)
	}
}
