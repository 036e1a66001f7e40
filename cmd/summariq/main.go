package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"summariq"

	"github.com/joho/godotenv"
)

func main() {
	var (
		inputFile  = flag.String("file", "", "Text or PDF file to summarize (required)")
		method     = flag.String("method", string(summariq.MethodEasy), "Summary method (easy, 80/20, understanding)")
		makeQuiz   = flag.Bool("quiz", false, "Generate a quiz from the summary")
		playMode   = flag.Bool("play", false, "Play the quiz interactively")
		outputFile = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		apiKey     = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		verbose    = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	_ = godotenv.Load()

	cfg, err := summariq.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *apiKey != "" {
		cfg.OpenAIAPIKey = *apiKey
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	summariq.SetVerbose(*verbose || cfg.Verbose)

	if *inputFile == "" {
		log.Fatal("Input file is required. Use -file flag.")
	}

	doc, err := summariq.ExtractText(*inputFile)
	if err != nil {
		log.Fatal(summariq.UserMessage(summariq.StageExtraction, err))
	}
	summariq.VerboseLog("Extracted %d characters from %s", len(doc.Text), doc.Name)

	var generator summariq.TextGenerator = cfg.NewGenerator()
	sess := summariq.NewSession()
	if cfg.LogDir != "" {
		logger, err := summariq.NewLLMLogger(cfg.LogDir, sess.ID)
		if err != nil {
			log.Printf("Failed to create LLM logger: %v", err)
		} else {
			defer logger.Close()
			generator = logger.Wrap("cli", generator)
		}
	}

	pipeline := summariq.NewPipeline(generator, cfg.SummarizerOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sess, err = pipeline.Summarize(ctx, sess, doc, summariq.SummaryMethod(*method))
	if err != nil {
		log.Fatal(summariq.UserMessage(summariq.StageSummarization, err))
	}

	fmt.Println(sess.Summary)

	if !*makeQuiz && !*playMode {
		return
	}

	sess, err = pipeline.Quiz(ctx, sess)
	if err != nil {
		log.Fatal(summariq.UserMessage(summariq.StageQuiz, err))
	}

	if *playMode {
		submission := playQuiz(os.Stdin, os.Stdout, sess.Quiz.Questions)
		_, result, err := pipeline.Submit(sess, submission)
		if err != nil {
			log.Fatal(summariq.UserMessage(summariq.StageScoring, err))
		}
		printScore(os.Stdout, result)
		return
	}

	output, err := json.MarshalIndent(sess.Quiz, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal quiz: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Quiz saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}
}

// playQuiz asks every question on out and reads letters from in. It returns
// the collected answers.
func playQuiz(in io.Reader, out io.Writer, questions []summariq.QuizQuestion) summariq.AnswerSubmission {
	scanner := bufio.NewScanner(in)
	submission := make(summariq.AnswerSubmission, len(questions))

	fmt.Fprintf(out, "🎯 Quiz: %d questions\n\n", len(questions))

	for i, q := range questions {
		fmt.Fprintf(out, "Question %d/%d [%s]:\n", i+1, len(questions), q.Difficulty)
		fmt.Fprintf(out, "%s\n\n", q.Question)

		letters := make([]string, 0, len(q.Options))
		for letter := range q.Options {
			letters = append(letters, letter)
		}
		sort.Strings(letters)
		for _, letter := range letters {
			fmt.Fprintf(out, "%s) %s\n", letter, q.Options[letter])
		}
		fmt.Fprintln(out)

		fmt.Fprintf(out, "Your answer (%s, empty to skip): ", strings.Join(letters, "/"))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		letter := summariq.NormalizeLetter(scanner.Text())
		if _, ok := q.Options[letter]; !ok {
			letter = ""
		}
		if letter != "" {
			submission[q.Index] = letter
		}

		if letter != "" && letter == q.CorrectAnswer {
			fmt.Fprintln(out, "✅ Correct!")
		} else {
			fmt.Fprintf(out, "❌ Incorrect. The correct answer is %s) %s\n", q.CorrectAnswer, q.Options[q.CorrectAnswer])
		}
		if q.Explanation != "" {
			fmt.Fprintf(out, "💡 Explanation: %s\n", q.Explanation)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.Repeat("─", 50))
		fmt.Fprintln(out)
	}

	return submission
}

// printScore prints the final score with a short verdict
func printScore(out io.Writer, result summariq.ScoreResult) {
	fmt.Fprintln(out, "🎉 Quiz completed!")
	fmt.Fprintf(out, "Score: %d/%d (%.1f%%)\n", result.Score, result.Total, result.Percent())

	switch {
	case result.Percent() >= 80:
		fmt.Fprintln(out, "🌟 Excellent work!")
	case result.Percent() >= 60:
		fmt.Fprintln(out, "👍 Good job!")
	default:
		fmt.Fprintln(out, "📚 Keep studying!")
	}
}
