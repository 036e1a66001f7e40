package summariq

import (
	"regexp"
	"strconv"
	"strings"
)

// SkipReason names why a block of the model response was dropped
type SkipReason string

const (
	SkipTooFewLines SkipReason = "too_few_lines"
	SkipBadHeader   SkipReason = "bad_header"
	SkipBadQuestion SkipReason = "bad_question"
	SkipBadAnswer   SkipReason = "bad_answer"
)

// BlockSkip records a dropped block. Block is the 0-based block position in
// the response and Line the offending line, if any.
type BlockSkip struct {
	Block  int        `json:"block"`
	Reason SkipReason `json:"reason"`
	Line   string     `json:"line,omitempty"`
}

// ParseReport is the outcome of parsing one model response
type ParseReport struct {
	Questions []QuizQuestion
	Skipped   []BlockSkip
}

const blockLines = 8

var (
	blockSeparator = regexp.MustCompile(`\n\s*\n`)
	headerPattern  = regexp.MustCompile(`^Question\s+(\d+)\s+\[(\w+)\]:`)
	questionLine   = regexp.MustCompile(`^Question:\s*(.+)`)
	optionLine     = regexp.MustCompile(`^Option\s+([A-D]):\s*(.+)`)
	answerLine     = regexp.MustCompile(`^Answer:\s*([A-D])`)
	explainLine    = regexp.MustCompile(`^Explanation:\s*(.+)`)
)

// ParseQuiz extracts every well-formed question from raw. Malformed blocks
// are dropped; it never fails.
func ParseQuiz(raw string) []QuizQuestion {
	return ParseQuizReport(raw).Questions
}

// ParseQuizReport is ParseQuiz with the reason for every dropped block
func ParseQuizReport(raw string) ParseReport {
	var report ParseReport

	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if raw == "" {
		return report
	}

	for i, block := range blockSeparator.Split(raw, -1) {
		question, skip := parseBlock(block)
		if skip != nil {
			skip.Block = i
			report.Skipped = append(report.Skipped, *skip)
			VerboseLog("Quiz block %d skipped: %s", i, skip.Reason)
			continue
		}
		question.Index = len(report.Questions) + 1
		report.Questions = append(report.Questions, question)
	}

	return report
}

type parseState int

const (
	stateHeader parseState = iota
	stateQuestion
	stateOptions
	stateAnswer
	stateExplanation
	stateDone
)

// parseBlock walks the eight lines of one block through the grammar
func parseBlock(block string) (QuizQuestion, *BlockSkip) {
	lines := nonEmptyLines(block)
	if len(lines) < blockLines {
		return QuizQuestion{}, &BlockSkip{Reason: SkipTooFewLines}
	}

	q := QuizQuestion{Options: make(map[string]string, 4)}
	state := stateHeader
	line := 0

	for state != stateDone {
		switch state {
		case stateHeader:
			m := headerPattern.FindStringSubmatch(lines[line])
			if m == nil {
				return QuizQuestion{}, &BlockSkip{Reason: SkipBadHeader, Line: lines[line]}
			}
			q.Number, _ = strconv.Atoi(m[1])
			q.Difficulty = strings.ToLower(m[2])
			line++
			state = stateQuestion

		case stateQuestion:
			m := questionLine.FindStringSubmatch(lines[line])
			if m == nil {
				return QuizQuestion{}, &BlockSkip{Reason: SkipBadQuestion, Line: lines[line]}
			}
			q.Question = m[1]
			line++
			state = stateOptions

		case stateOptions:
			// Four option lines; a line that does not match only leaves its letter out
			for _, l := range lines[line : line+4] {
				if m := optionLine.FindStringSubmatch(l); m != nil {
					q.Options[m[1]] = m[2]
				}
			}
			line += 4
			state = stateAnswer

		case stateAnswer:
			m := answerLine.FindStringSubmatch(lines[line])
			if m == nil {
				return QuizQuestion{}, &BlockSkip{Reason: SkipBadAnswer, Line: lines[line]}
			}
			q.CorrectAnswer = m[1]
			line++
			state = stateExplanation

		case stateExplanation:
			if m := explainLine.FindStringSubmatch(lines[line]); m != nil {
				q.Explanation = m[1]
			}
			state = stateDone
		}
	}

	return q, nil
}

func nonEmptyLines(block string) []string {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
