package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"summariq"
)

func TestPlayQuiz(t *testing.T) {
	questions := []summariq.QuizQuestion{
		{
			Index:         1,
			Difficulty:    summariq.DifficultyEasy,
			Question:      "What is 2+2?",
			Options:       map[string]string{"A": "3", "B": "4", "C": "5", "D": "6"},
			CorrectAnswer: "B",
			Explanation:   "Basic arithmetic.",
		},
		{
			Index:         2,
			Difficulty:    summariq.DifficultyHard,
			Question:      "What is 7*6?",
			Options:       map[string]string{"A": "42", "B": "36", "C": "48", "D": "49"},
			CorrectAnswer: "A",
		},
	}

	var out bytes.Buffer
	submission := playQuiz(strings.NewReader(" b \nz\n"), &out, questions)

	if submission[1] != "B" {
		t.Errorf("submission[1] = %q, want %q", submission[1], "B")
	}
	if _, ok := submission[2]; ok {
		t.Errorf("submission[2] = %q, want no answer for an unknown letter", submission[2])
	}

	text := out.String()
	for _, want := range []string{
		"Question 1/2 [easy]:",
		"B) 4",
		"✅ Correct!",
		"❌ Incorrect. The correct answer is A) 42",
		"💡 Explanation: Basic arithmetic.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestPlayQuizEndOfInput(t *testing.T) {
	questions := []summariq.QuizQuestion{
		{Index: 1, Question: "Q1", Options: map[string]string{"A": "x"}, CorrectAnswer: "A"},
		{Index: 2, Question: "Q2", Options: map[string]string{"A": "y"}, CorrectAnswer: "A"},
	}

	var out bytes.Buffer
	submission := playQuiz(strings.NewReader("A\n"), &out, questions)

	if len(submission) != 1 || submission[1] != "A" {
		t.Fatalf("submission = %v, want only question 1 answered", submission)
	}
}

func TestPrintScoreFromPipeline(t *testing.T) {
	questions := []summariq.QuizQuestion{
		{Index: 1, Question: "Q1", Options: map[string]string{"A": "x", "B": "y"}, CorrectAnswer: "A"},
		{Index: 2, Question: "Q2", Options: map[string]string{"A": "x", "B": "y"}, CorrectAnswer: "B"},
	}
	sess := summariq.NewSession()
	sess.Quiz = &summariq.Quiz{ID: "quiz-1", Questions: questions}

	pipeline := summariq.NewPipeline(summariq.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		t.Fatalf("scoring must not call the model")
		return "", nil
	}), summariq.SummarizerOptions{})

	submission := playQuiz(strings.NewReader("A\nA\n"), io.Discard, questions)
	_, result, err := pipeline.Submit(sess, submission)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	var out bytes.Buffer
	printScore(&out, result)

	for _, want := range []string{"🎉 Quiz completed!", "Score: 1/2 (50.0%)", "📚 Keep studying!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrintScoreVerdicts(t *testing.T) {
	tests := []struct {
		result summariq.ScoreResult
		want   string
	}{
		{summariq.ScoreResult{Score: 5, Total: 5}, "🌟 Excellent work!"},
		{summariq.ScoreResult{Score: 3, Total: 5}, "👍 Good job!"},
		{summariq.ScoreResult{Score: 0, Total: 0}, "📚 Keep studying!"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		printScore(&out, tt.result)
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("printScore(%d/%d) output missing %q", tt.result.Score, tt.result.Total, tt.want)
		}
	}
}
