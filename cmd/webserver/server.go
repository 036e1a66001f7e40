package main

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"summariq"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	cookieName    = "summariq-session"
	sessionIDKey  = "sid"
	maxUploadSize = 32 << 20
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the upload → summary → quiz → result flow
type Server struct {
	cfg       summariq.Config
	db        *summariq.SessionStore
	cookies   sessions.Store
	locks     *summariq.SessionLocks
	generator summariq.TextGenerator
	templates map[string]*template.Template
}

type methodOption struct {
	Value       summariq.SummaryMethod
	Description string
}

// NewServer parses the templates and wires the pipeline dependencies
func NewServer(cfg summariq.Config, db *summariq.SessionStore, cookies sessions.Store, generator summariq.TextGenerator) (*Server, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"field": summariq.FormField,
	}

	templates := make(map[string]*template.Template)
	for _, name := range []string{"index", "result", "quiz", "quiz_result", "about"} {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Server{
		cfg:       cfg,
		db:        db,
		cookies:   cookies,
		locks:     summariq.NewSessionLocks(),
		generator: generator,
		templates: templates,
	}, nil
}

// Routes returns the HTTP handler for all pages
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/quiz", s.handleQuiz)
	mux.HandleFunc("/submit_quiz", s.handleSubmitQuiz)
	mux.HandleFunc("/about", s.handleAbout)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		cookie, _ := s.cookies.Get(r, cookieName)
		flashes := cookie.Flashes()
		if err := cookie.Save(r, w); err != nil {
			log.Printf("Session save error: %v", err)
		}

		methods := make([]methodOption, 0, len(summariq.SummaryMethods))
		for _, m := range summariq.SummaryMethods {
			methods = append(methods, methodOption{Value: m, Description: summariq.MethodDescriptions[m]})
		}
		s.render(w, "index", map[string]interface{}{
			"Flashes": flashes,
			"Methods": methods,
		})
	case http.MethodPost:
		s.handleUpload(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.flashRedirect(w, r, "No file part in the request.", "/")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.flashRedirect(w, r, "No file part in the request.", "/")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.flashRedirect(w, r, "No file selected.", "/")
		return
	}

	method := summariq.SummaryMethod(r.FormValue("method"))
	if !method.Valid() {
		s.flashRedirect(w, r, summariq.UserMessage(summariq.StageSummarization, summariq.ErrUnsupportedMethod), "/")
		return
	}

	path, err := s.saveUpload(file, header.Filename)
	if err != nil {
		log.Printf("Failed to save upload: %v", err)
		s.flashRedirect(w, r, summariq.UserMessage(summariq.StageExtraction, err), "/")
		return
	}
	defer os.Remove(path)

	doc, err := summariq.ExtractText(path)
	if err != nil {
		log.Printf("Extraction failed for %s: %v", header.Filename, err)
		s.flashRedirect(w, r, summariq.UserMessage(summariq.StageExtraction, err), "/")
		return
	}
	doc.Name = filepath.Base(header.Filename)

	id, cookie := s.sessionID(r)
	unlock := s.locks.Lock(id)
	defer unlock()
	sess := s.loadSession(r.Context(), id)

	pipeline, done := s.pipeline(sess.ID, "summarize")
	defer done()

	sess, err = pipeline.Summarize(r.Context(), sess, doc, method)
	if err != nil {
		log.Printf("Summarization failed for session %s: %v", sess.ID, err)
		s.flashRedirect(w, r, summariq.UserMessage(summariq.StageSummarization, err), "/")
		return
	}

	if !s.saveSession(w, r, sess, cookie) {
		return
	}

	s.render(w, "result", map[string]interface{}{
		"SourceName": sess.SourceName,
		"Method":     sess.Method,
		"Summary":    template.HTML(sess.SummaryHTML),
	})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, cookie := s.sessionID(r)
	unlock := s.locks.Lock(id)
	defer unlock()
	sess := s.loadSession(r.Context(), id)

	// Reloading the page shows the current quiz instead of generating a new one
	if r.Method == http.MethodGet && sess.HasQuiz() {
		s.render(w, "quiz", map[string]interface{}{"Questions": sess.Quiz.Questions})
		return
	}

	if !sess.HasSummary() {
		s.flashRedirect(w, r, summariq.UserMessage(summariq.StageQuiz, summariq.ErrNoSummary), "/")
		return
	}

	pipeline, done := s.pipeline(sess.ID, "quiz")
	defer done()

	sess, err := pipeline.Quiz(r.Context(), sess)
	if err != nil {
		log.Printf("Quiz generation failed for session %s: %v", sess.ID, err)
		s.flashRedirect(w, r, summariq.UserMessage(summariq.StageQuiz, err), "/")
		return
	}

	if !s.saveSession(w, r, sess, cookie) {
		return
	}

	s.render(w, "quiz", map[string]interface{}{"Questions": sess.Quiz.Questions})
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	id, cookie := s.sessionID(r)
	unlock := s.locks.Lock(id)
	defer unlock()
	sess := s.loadSession(r.Context(), id)

	if !sess.HasQuiz() {
		s.flashRedirect(w, r, summariq.UserMessage(summariq.StageScoring, summariq.ErrNoQuiz), "/")
		return
	}

	pipeline, done := s.pipeline(sess.ID, "score")
	defer done()

	submission := summariq.SubmissionFromForm(r.PostForm, sess.Quiz.Questions)
	sess, result, err := pipeline.Submit(sess, submission)
	if err != nil {
		s.flashRedirect(w, r, summariq.UserMessage(summariq.StageScoring, err), "/")
		return
	}

	if !s.saveSession(w, r, sess, cookie) {
		return
	}

	s.render(w, "quiz_result", map[string]interface{}{"Result": result})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, "about", nil)
}

// sessionID returns the session ID held by the cookie, assigning a new one
// when the cookie has none or cannot be decoded
func (s *Server) sessionID(r *http.Request) (string, *sessions.Session) {
	cookie, err := s.cookies.Get(r, cookieName)
	if err != nil {
		log.Printf("Session cookie error: %v", err)
	}

	if id, ok := cookie.Values[sessionIDKey].(string); ok && id != "" {
		return id, cookie
	}

	id := uuid.NewString()
	cookie.Values[sessionIDKey] = id
	return id, cookie
}

// loadSession reads the stored session for id, or starts an empty one when
// it is missing or expired. Callers hold the session lock so the copy they
// modify is never stale.
func (s *Server) loadSession(ctx context.Context, id string) summariq.Session {
	sess, err := s.db.Get(ctx, id)
	if err == nil {
		return sess
	}
	if !errors.Is(err, summariq.ErrSessionNotFound) {
		log.Printf("Failed to load session %s: %v", id, err)
	}

	sess = summariq.NewSession()
	sess.ID = id
	return sess
}

// saveSession persists sess and the cookie pointing at it. It writes an error
// response and returns false on failure.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess summariq.Session, cookie *sessions.Session) bool {
	if err := s.db.Save(r.Context(), sess); err != nil {
		log.Printf("Failed to save session %s: %v", sess.ID, err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return false
	}
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Session save error: %v", err)
	}
	return true
}

// pipeline returns a pipeline for one request. When LLM_LOG_DIR is set every
// model call is recorded in the session's transcript.
func (s *Server) pipeline(sessionID, module string) (*summariq.Pipeline, func()) {
	generator := s.generator
	done := func() {}

	if s.cfg.LogDir != "" {
		logger, err := summariq.NewLLMLogger(s.cfg.LogDir, sessionID)
		if err != nil {
			// Continue without logging rather than failing
			log.Printf("Failed to create logger for session %s: %v", sessionID, err)
		} else {
			generator = logger.Wrap(module, generator)
			done = func() { logger.Close() }
		}
	}

	return summariq.NewPipeline(generator, s.cfg.SummarizerOptions()), done
}

func (s *Server) saveUpload(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.cfg.UploadDir, uuid.NewString()+"-"+filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// newCookieStore returns the cookie store for the session ID and flash
// messages. Secure cookies are only sent back over HTTPS.
func newCookieStore(secret []byte, secure bool, maxAge int) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	if maxAge > 0 {
		store.Options.MaxAge = maxAge
	}
	return store
}

func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, message, target string) {
	cookie, _ := s.cookies.Get(r, cookieName)
	cookie.AddFlash(message)
	if err := cookie.Save(r, w); err != nil {
		log.Printf("Session save error: %v", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates[name].ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Printf("Template error in %s: %v", name, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
