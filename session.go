package summariq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session carries one user's state through summary, quiz and submission.
// Pipeline stages take a Session and return the updated copy; storing it
// between requests is the caller's job.
type Session struct {
	ID          string        `json:"id"`
	Method      SummaryMethod `json:"method,omitempty"`
	SourceName  string        `json:"source_name,omitempty"`
	Summary     string        `json:"summary,omitempty"`
	SummaryHTML string        `json:"summary_html,omitempty"`
	Quiz        *Quiz         `json:"quiz,omitempty"`
	Result      *ScoreResult  `json:"result,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewSession starts an empty session with a fresh ID
func NewSession() Session {
	now := time.Now()
	return Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasSummary reports whether the session is ready for quiz generation
func (s Session) HasSummary() bool {
	return s.Summary != ""
}

// HasQuiz reports whether the session is ready for a submission
func (s Session) HasQuiz() bool {
	return s.Quiz != nil && len(s.Quiz.Questions) > 0
}

// Pipeline runs the summary, quiz and scoring stages against a session
type Pipeline struct {
	summarizer *Summarizer
	quizMaker  *QuizMaker
}

// NewPipeline wires both LLM stages to generator
func NewPipeline(generator TextGenerator, opts SummarizerOptions) *Pipeline {
	return &Pipeline{
		summarizer: NewSummarizer(generator, opts),
		quizMaker:  NewQuizMaker(generator),
	}
}

// Summarize summarizes doc and stores the Markdown and rendered HTML in the
// session. Any previous quiz or result is discarded. On error the session is
// returned unchanged.
func (p *Pipeline) Summarize(ctx context.Context, sess Session, doc Document, method SummaryMethod) (Session, error) {
	summary, err := p.summarizer.Summarize(ctx, doc.Text, method)
	if err != nil {
		return sess, err
	}

	html, err := RenderMarkdown(summary)
	if err != nil {
		return sess, fmt.Errorf("failed to render summary: %w", err)
	}

	sess.Method = method
	sess.SourceName = doc.Name
	sess.Summary = summary
	sess.SummaryHTML = html
	sess.Quiz = nil
	sess.Result = nil
	sess.UpdatedAt = time.Now()
	return sess, nil
}

// Quiz generates a quiz from the session's summary, replacing any earlier one
func (p *Pipeline) Quiz(ctx context.Context, sess Session) (Session, error) {
	if !sess.HasSummary() {
		return sess, ErrNoSummary
	}

	quiz, err := p.quizMaker.GenerateQuiz(ctx, sess.Summary)
	if err != nil {
		return sess, err
	}

	sess.Quiz = quiz
	sess.Result = nil
	sess.UpdatedAt = time.Now()
	return sess, nil
}

// Submit grades submission against the session's quiz
func (p *Pipeline) Submit(sess Session, submission AnswerSubmission) (Session, ScoreResult, error) {
	if !sess.HasQuiz() {
		return sess, ScoreResult{}, ErrNoQuiz
	}

	result := Score(sess.Quiz.Questions, submission)
	sess.Result = &result
	sess.UpdatedAt = time.Now()
	return sess, result, nil
}
