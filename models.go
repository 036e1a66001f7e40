package summariq

import "time"

// SourceFormat identifies where a document's text came from
type SourceFormat string

const (
	FormatText SourceFormat = "text"
	FormatPDF  SourceFormat = "pdf"
)

// Document is the raw text extracted from an uploaded file
type Document struct {
	Name   string       `json:"name"`
	Text   string       `json:"text"`
	Format SourceFormat `json:"format"`
}

// Chunk is a window over a document's text. Start and Text are measured in runes.
type Chunk struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	Text  string `json:"text"`
}

// End returns the rune offset just past the chunk
func (c Chunk) End() int {
	return c.Start + len([]rune(c.Text))
}

// SummaryMethod selects the prompt used to summarize a document
type SummaryMethod string

const (
	MethodEasy          SummaryMethod = "easy"
	MethodPareto        SummaryMethod = "80/20"
	MethodUnderstanding SummaryMethod = "understanding"
)

// SummaryMethods lists the supported methods in display order
var SummaryMethods = []SummaryMethod{MethodEasy, MethodPareto, MethodUnderstanding}

// MethodDescriptions is shown next to each method on the upload form
var MethodDescriptions = map[SummaryMethod]string{
	MethodEasy:          "A simple, concise summary in note form.",
	MethodPareto:        "Extracts the critical 20% (Key 20%) and supporting 80% as notes.",
	MethodUnderstanding: "Rewrites content into clear, understandable notes.",
}

// Valid reports whether m is one of the supported methods
func (m SummaryMethod) Valid() bool {
	_, ok := summaryPrompts[m]
	return ok
}

// Difficulty levels requested from the model. Parsed questions keep whatever
// token the model wrote, lower-cased.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QuizQuestion is one multiple choice question parsed from a model response
type QuizQuestion struct {
	Index         int               `json:"index"`  // 1-based position in the quiz
	Number        int               `json:"number"` // number the model printed in the header
	Difficulty    string            `json:"difficulty"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// Quiz represents a generated quiz
type Quiz struct {
	ID        string         `json:"id"`
	Questions []QuizQuestion `json:"questions"`
	Skipped   []BlockSkip    `json:"skipped,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AnswerSubmission maps a question index to the submitted letter.
// A missing key means the question was not answered.
type AnswerSubmission map[int]string

// QuestionResult is the graded outcome of a single question
type QuestionResult struct {
	Index       int    `json:"index"`
	Question    string `json:"question"`
	Selected    string `json:"selected,omitempty"`
	Correct     string `json:"correct"`
	CorrectText string `json:"correct_text"`
	Explanation string `json:"explanation"`
	IsCorrect   bool   `json:"is_correct"`
}

// Answered reports whether a letter was submitted for the question
func (r QuestionResult) Answered() bool {
	return r.Selected != ""
}

// ScoreResult is the graded outcome of a whole submission
type ScoreResult struct {
	PerQuestion []QuestionResult `json:"per_question"`
	Score       int              `json:"score"`
	Total       int              `json:"total"`
}

// Percent returns the score as a percentage of the total
func (r ScoreResult) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.Total)
}
