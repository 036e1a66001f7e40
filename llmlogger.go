package summariq

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLogger writes a transcript of every model interaction of one session
type LLMLogger struct {
	file      *os.File
	mu        sync.Mutex
	sessionID string
}

// NewLLMLogger creates (or appends to) <dir>/<sessionID>.log
func NewLLMLogger(dir, sessionID string) (*LLMLogger, error) {
	// Ensure log directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", sessionID))
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &LLMLogger{
		file:      file,
		sessionID: sessionID,
	}

	logger.Logf("=== Session Log ===\n")
	logger.Logf("Session ID: %s\n", sessionID)
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("===================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (ll *LLMLogger) Logf(format string, args ...interface{}) {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	ll.write(format, args...)
}

func (ll *LLMLogger) write(format string, args ...interface{}) {
	if ll.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	ll.file.Sync()
}

// LogLLMRequest logs an LLM request
func (ll *LLMLogger) LogLLMRequest(module, prompt string) {
	ll.Logf("=== LLM REQUEST (%s) ===\n", module)
	ll.Logf("Prompt:\n%s\n", prompt)
	ll.Logf("=====================\n\n")
}

// LogLLMResponse logs an LLM response
func (ll *LLMLogger) LogLLMResponse(module, response string) {
	ll.Logf("=== LLM RESPONSE (%s) ===\n", module)
	ll.Logf("Response:\n%s\n", response)
	ll.Logf("======================\n\n")
}

// LogLLMError logs a failed LLM call
func (ll *LLMLogger) LogLLMError(module string, err error) {
	ll.Logf("=== LLM ERROR (%s) ===\n", module)
	ll.Logf("%v\n", err)
	ll.Logf("===================\n\n")
}

// Wrap returns a generator that records every call made through gen
func (ll *LLMLogger) Wrap(module string, gen TextGenerator) TextGenerator {
	return GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		ll.LogLLMRequest(module, prompt)
		out, err := gen.Generate(ctx, prompt)
		if err != nil {
			ll.LogLLMError(module, err)
			return "", err
		}
		ll.LogLLMResponse(module, out)
		return out, nil
	})
}

// Close closes the log file
func (ll *LLMLogger) Close() error {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return nil
	}
	ll.write("=== Session Log Closed: %s ===\n\n", time.Now().Format(time.RFC3339))
	err := ll.file.Close()
	ll.file = nil
	return err
}
