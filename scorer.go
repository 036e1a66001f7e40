package summariq

import (
	"fmt"
	"net/url"
	"strings"
)

// Score grades submission against questions in quiz order. Unanswered
// questions count as incorrect. A correct letter without option text yields
// an empty CorrectText.
func Score(questions []QuizQuestion, submission AnswerSubmission) ScoreResult {
	result := ScoreResult{
		PerQuestion: make([]QuestionResult, 0, len(questions)),
		Total:       len(questions),
	}

	for _, q := range questions {
		selected := submission[q.Index]
		isCorrect := selected != "" && selected == q.CorrectAnswer
		if isCorrect {
			result.Score++
		}

		result.PerQuestion = append(result.PerQuestion, QuestionResult{
			Index:       q.Index,
			Question:    q.Question,
			Selected:    selected,
			Correct:     q.CorrectAnswer,
			CorrectText: q.Options[q.CorrectAnswer],
			Explanation: q.Explanation,
			IsCorrect:   isCorrect,
		})
	}

	return result
}

// FormField returns the form key for the question at position i (0-based)
func FormField(i int) string {
	return fmt.Sprintf("q%d", i)
}

// SubmissionFromForm reads answers keyed "q<position>" where position is the
// 0-based place of the question in the quiz. Empty values are skipped.
func SubmissionFromForm(form url.Values, questions []QuizQuestion) AnswerSubmission {
	submission := make(AnswerSubmission, len(questions))
	for i, q := range questions {
		letter := NormalizeLetter(form.Get(FormField(i)))
		if letter != "" {
			submission[q.Index] = letter
		}
	}
	return submission
}

// NormalizeLetter trims and upper-cases a submitted letter. Anything that is
// not a single character is treated as no answer.
func NormalizeLetter(answer string) string {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	if len(letter) != 1 {
		return ""
	}
	return letter
}
