package summariq

import (
	"errors"
	"fmt"
)

// Stage names a step of the pipeline for error reporting
type Stage string

const (
	StageExtraction    Stage = "extraction"
	StageSummarization Stage = "summarization"
	StageQuiz          Stage = "quiz generation"
	StageScoring       Stage = "scoring"
)

// Input errors. These are always shown to the user and are raised before any
// LLM call is made.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format, please use TXT or PDF")
	ErrEmptyInput        = errors.New("input text is empty")
	ErrUnsupportedMethod = errors.New("unsupported summarization method")
	ErrNoSummary         = errors.New("no summary available")
	ErrNoQuiz            = errors.New("no quiz available")
)

// ErrInvalidConfig is returned for chunk settings that cannot make progress
var ErrInvalidConfig = errors.New("invalid chunk configuration")

// ErrQuizGenerationFailed means the model answered but no question could be parsed
var ErrQuizGenerationFailed = errors.New("quiz generation produced no usable questions")

// IsInputError reports whether err was caused by bad user input
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrUnsupportedMethod) ||
		errors.Is(err, ErrNoSummary) ||
		errors.Is(err, ErrNoQuiz)
}

// Phase of the LLM pipeline that failed
type Phase string

const (
	PhaseMap    Phase = "map"
	PhaseReduce Phase = "reduce"
	PhaseQuiz   Phase = "quiz"
)

// GenerationError wraps a failed LLM call with the phase that issued it.
// Index is the chunk index for the map phase and the pass number for reduce.
type GenerationError struct {
	Phase Phase
	Index int
	Err   error
}

func (e *GenerationError) Error() string {
	switch e.Phase {
	case PhaseMap:
		return fmt.Sprintf("generation failed at map chunk %d: %v", e.Index, e.Err)
	case PhaseReduce:
		return fmt.Sprintf("generation failed at reduce pass %d: %v", e.Index, e.Err)
	default:
		return fmt.Sprintf("generation failed at %s: %v", e.Phase, e.Err)
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the request may succeed
func (e *GenerationError) Transient() bool {
	return IsTransient(e.Err)
}

// UserMessage turns a pipeline error into a message that names the failing
// stage without exposing internal details.
func UserMessage(stage Stage, err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return "Unsupported file format. Please use TXT or PDF."
	case errors.Is(err, ErrEmptyInput):
		return fmt.Sprintf("%s failed: the document does not contain any text.", stageTitle(stage))
	case errors.Is(err, ErrUnsupportedMethod):
		return "Please choose a valid summarization method."
	case errors.Is(err, ErrNoSummary):
		return "No summary available. Please generate a summary first."
	case errors.Is(err, ErrNoQuiz):
		return "No quiz available. Please generate a quiz first."
	case errors.Is(err, ErrQuizGenerationFailed):
		return "Quiz generation failed: the model response could not be turned into questions. Please try again."
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		if genErr.Transient() {
			return fmt.Sprintf("%s failed: the language model is temporarily unavailable. Please try again.", stageTitle(stage))
		}
		return fmt.Sprintf("%s failed: the language model returned an error. Please try again.", stageTitle(stage))
	}

	return fmt.Sprintf("%s failed. Please try again.", stageTitle(stage))
}

func stageTitle(stage Stage) string {
	switch stage {
	case StageExtraction:
		return "Text extraction"
	case StageSummarization:
		return "Summarization"
	case StageQuiz:
		return "Quiz generation"
	case StageScoring:
		return "Scoring"
	default:
		return "Processing"
	}
}
