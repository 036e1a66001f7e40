package summariq

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QuizMaker generates a quiz from a summary with a single model call
type QuizMaker struct {
	generator TextGenerator
}

// NewQuizMaker creates a new quiz maker
func NewQuizMaker(generator TextGenerator) *QuizMaker {
	return &QuizMaker{generator: generator}
}

// GenerateQuiz asks the model for five questions about summary and parses
// the reply. It does not retry: a response without any usable question
// returns ErrQuizGenerationFailed.
func (qm *QuizMaker) GenerateQuiz(ctx context.Context, summary string) (*Quiz, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, ErrEmptyInput
	}

	log.Printf("Generating %d questions from a %d character summary", quizQuestionCount, len(summary))

	raw, err := qm.generator.Generate(ctx, QuizPrompt(summary))
	if err != nil {
		return nil, &GenerationError{Phase: PhaseQuiz, Err: err}
	}

	report := ParseQuizReport(raw)
	if len(report.Questions) == 0 {
		return nil, fmt.Errorf("%w: %d blocks skipped", ErrQuizGenerationFailed, len(report.Skipped))
	}

	if len(report.Questions) != quizQuestionCount {
		log.Printf("Model returned %d usable questions instead of %d (%d blocks skipped)",
			len(report.Questions), quizQuestionCount, len(report.Skipped))
	}

	quiz := &Quiz{
		ID:        uuid.NewString(),
		Questions: report.Questions,
		Skipped:   report.Skipped,
		CreatedAt: time.Now(),
	}

	log.Printf("Quiz %s generated with %d questions", quiz.ID, len(quiz.Questions))
	return quiz, nil
}
