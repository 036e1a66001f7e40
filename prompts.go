package summariq

import (
	"fmt"
	"strings"
)

var summaryPrompts = map[SummaryMethod]string{
	MethodEasy: "Generate a detailed note summary of the following text in Markdown format. " +
		"Include a title, bullet points for key points, and a section titled 'Points to Remember'.",
	MethodPareto: "Analyze the following text and extract the most critical 20% of the content (Key 20%) that represents 80% of the ideas (Supporting 80%). " +
		"Present your answer in Markdown with two sections: one titled 'Key 20%' and one titled 'Supporting 80%'. " +
		"Also include bullet points and a section 'Points to Remember'.",
	MethodUnderstanding: "Rewrite the following text into an easily understandable set of notes in Markdown format. " +
		"Use headings, bullet points for key takeaways, and include a section 'Points to Remember'.",
}

// SummaryPrompt builds the prompt for one map or reduce call
func SummaryPrompt(method SummaryMethod, text string) (string, error) {
	instruction, ok := summaryPrompts[method]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\n")
	sb.WriteString(text)
	return sb.String(), nil
}

// QuizPrompt asks for five questions in the line grammar understood by ParseQuiz
func QuizPrompt(summary string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Based on the following summary, generate a multiple-choice quiz with %d questions: ", quizQuestionCount))
	sb.WriteString(fmt.Sprintf("%d easy, %d medium, and %d hard. ", quizMix[DifficultyEasy], quizMix[DifficultyMedium], quizMix[DifficultyHard]))
	sb.WriteString("For each question, follow this exact format:\n\n")
	sb.WriteString("Question <number> [<difficulty>]:\n")
	sb.WriteString("Question: <question text>\n")
	sb.WriteString("Option A: <option text>\n")
	sb.WriteString("Option B: <option text>\n")
	sb.WriteString("Option C: <option text>\n")
	sb.WriteString("Option D: <option text>\n")
	sb.WriteString("Answer: <correct letter>\n")
	sb.WriteString("Explanation: <explanation text>\n\n")
	sb.WriteString("Separate each question by a blank line.\n\n")
	sb.WriteString("Summary:\n")
	sb.WriteString(summary)

	return sb.String()
}

const quizQuestionCount = 5

var quizMix = map[string]int{
	DifficultyEasy:   2,
	DifficultyMedium: 2,
	DifficultyHard:   1,
}
