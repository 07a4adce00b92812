package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/AnesSym/medical-test/internal/core"
	"github.com/AnesSym/medical-test/internal/mail"
	"github.com/AnesSym/medical-test/internal/report"
	"github.com/AnesSym/medical-test/pkg"
)

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Store    *core.Store
	Patients *core.PatientLog
	Chat     *core.ChatService
	Mailer   *mail.FeedbackMailer
	Log      zerolog.Logger
}

// NewServer constructs a Server.
func NewServer(store *core.Store, patients *core.PatientLog, chat *core.ChatService, mailer *mail.FeedbackMailer, log zerolog.Logger) *Server {
	return &Server{
		Store:    store,
		Patients: patients,
		Chat:     chat,
		Mailer:   mailer,
		Log:      log,
	}
}

// ServeHTTP dispatches incoming requests based on the URL path.  Minimal
// routing logic is implemented here to keep dependencies light.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/api/conversations" && r.Method == http.MethodPost:
		s.handleCreateConversation(w, r)
	case path == "/api/conversations" && r.Method == http.MethodGet:
		s.handleListConversations(w, r)
	case strings.HasPrefix(path, "/api/conversations/"):
		parts := strings.Split(path, "/")
		if len(parts) < 4 || parts[3] == "" {
			http.NotFound(w, r)
			return
		}
		id := parts[3]
		switch {
		case len(parts) == 4 && r.Method == http.MethodDelete:
			s.handleDeleteConversation(w, r, id)
		case len(parts) == 5 && parts[4] == "activate" && r.Method == http.MethodPost:
			s.handleActivateConversation(w, r, id)
		case len(parts) == 5 && parts[4] == "messages" && r.Method == http.MethodPost:
			s.handlePostMessage(w, r, id)
		default:
			http.NotFound(w, r)
		}
	case path == "/api/patients" && r.Method == http.MethodPost:
		s.handleSubmitPatient(w, r)
	case strings.HasPrefix(path, "/api/patients/"):
		parts := strings.Split(path, "/")
		if len(parts) != 5 {
			http.NotFound(w, r)
			return
		}
		idx, err := strconv.Atoi(parts[3])
		if err != nil {
			http.NotFound(w, r)
			return
		}
		switch {
		case parts[4] == "analysis" && r.Method == http.MethodPost:
			s.handleAnalysis(w, r, idx)
		case parts[4] == "report" && r.Method == http.MethodGet:
			s.handleTextReport(w, r, idx)
		case parts[4] == "report.pdf" && r.Method == http.MethodGet:
			s.handlePDFReport(w, r, idx)
		default:
			http.NotFound(w, r)
		}
	case path == "/api/special" && r.Method == http.MethodPost:
		s.handleSpecial(w, r)
	case path == "/api/feedback" && r.Method == http.MethodPost:
		s.handleFeedback(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleCreateConversation opens a new conversation and makes it active.
func (s *Server) handleCreateConversation(w http.ResponseWriter, _ *http.Request) {
	id := s.Store.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handleListConversations returns all conversations, most recent first.
func (s *Server) handleListConversations(w http.ResponseWriter, _ *http.Request) {
	active := s.Store.ActiveID()
	convs := s.Store.List()
	out := make([]pkg.ConversationSummary, 0, len(convs))
	for _, c := range convs {
		out = append(out, pkg.ConversationSummary{
			ID:        c.ID,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			TurnCount: len(c.Turns),
			Active:    c.ID == active,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleActivateConversation(w http.ResponseWriter, _ *http.Request, id string) {
	if err := s.Store.SetActive(id); err != nil {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, _ *http.Request, id string) {
	if err := s.Store.Delete(id); err != nil {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePostMessage appends a user turn, streams the assistant reply over
// SSE, and completes the turn with the final text.  On upstream failure
// the turn is left open so the same input can be resubmitted.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request, id string) {
	var req pkg.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "empty message", http.StatusBadRequest)
		return
	}
	kind, err := core.ParseKind(req.Kind)
	if err != nil || kind.Special() || kind == core.KindDiagnostic {
		http.Error(w, "unsupported prompt kind", http.StatusBadRequest)
		return
	}

	// History is captured before the new turn is appended: the assembler
	// adds the current input itself.
	history, err := s.Store.Turns(id)
	if err != nil {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	if err := s.Store.AppendUserTurn(id, req.Content); err != nil {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}

	// The most recent intake record, when present, rides along as context
	// for triage chats.
	var patient *pkg.PatientRecord
	if kind == core.KindTriage && s.Patients.Len() > 0 {
		if rec, err := s.Patients.Get(s.Patients.Len() - 1); err == nil {
			patient = &rec
		}
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	final, err := s.Chat.Respond(r.Context(), kind, history, patient, req.Content, func(snapshot string) {
		sse.event("delta", map[string]string{"text": snapshot})
	})
	if err != nil {
		s.Log.Error().Err(err).Str("conversation", id).Str("kind", string(kind)).Msg("completion failed")
		sse.event("error", map[string]string{"error": "the assistant is unavailable, please resend your message"})
		return
	}
	if err := s.Store.CompleteLastTurn(id, final); err != nil {
		s.Log.Error().Err(err).Str("conversation", id).Msg("complete turn")
	}
	emergency := core.HasEmergencyIndicator(final)
	s.Log.Info().Str("conversation", id).Str("kind", string(kind)).Bool("emergency", emergency).Msg("turn completed")
	sse.event("done", map[string]interface{}{"text": final, "emergency": emergency})
}

// handleSpecial streams a follow-up response over the active conversation
// and records it as a turn of its own.
func (s *Server) handleSpecial(w http.ResponseWriter, r *http.Request) {
	var req pkg.SpecialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	kind, err := core.ParseKind(req.Kind)
	if err != nil || !kind.Special() {
		http.Error(w, "unsupported prompt kind", http.StatusBadRequest)
		return
	}

	id := s.Store.ActiveID()
	history, err := s.Store.Turns(id)
	if err != nil {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	final, err := s.Chat.Special(r.Context(), kind, history, func(snapshot string) {
		sse.event("delta", map[string]string{"text": snapshot})
	})
	if err != nil {
		s.Log.Error().Err(err).Str("conversation", id).Str("kind", string(kind)).Msg("special response failed")
		sse.event("error", map[string]string{"error": "the assistant is unavailable, please try again"})
		return
	}
	if err := s.Store.AppendUserTurn(id, string(kind)); err == nil {
		if err := s.Store.CompleteLastTurn(id, final); err != nil {
			s.Log.Error().Err(err).Str("conversation", id).Msg("record special response")
		}
	}
	sse.event("done", map[string]interface{}{"text": final, "emergency": core.HasEmergencyIndicator(final)})
}

// handleSubmitPatient appends an intake record and returns its index.
func (s *Server) handleSubmitPatient(w http.ResponseWriter, r *http.Request) {
	var rec pkg.PatientRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	idx := s.Patients.Append(rec)
	writeJSON(w, http.StatusCreated, map[string]int{"index": idx})
}

// handleAnalysis runs the diagnostic analysis for a record, caching the
// result so report downloads reuse it.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request, idx int) {
	rec, err := s.Patients.Get(idx)
	if err != nil {
		http.Error(w, "patient record not found", http.StatusNotFound)
		return
	}
	analysis, ok := s.Patients.Analysis(idx)
	if !ok {
		analysis, err = s.Chat.Diagnose(r.Context(), rec)
		if err != nil {
			s.Log.Error().Err(err).Int("patient", idx).Msg("diagnostic analysis failed")
			http.Error(w, "analysis is unavailable, please try again", http.StatusBadGateway)
			return
		}
		s.Patients.SetAnalysis(idx, analysis)
	}
	writeJSON(w, http.StatusOK, pkg.AnalysisResponse{
		Analysis:  analysis,
		Emergency: core.HasEmergencyIndicator(analysis),
	})
}

func (s *Server) handleTextReport(w http.ResponseWriter, _ *http.Request, idx int) {
	rec, analysis, ok := s.reportInputs(w, idx)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(report.RenderText(rec, analysis)))
}

func (s *Server) handlePDFReport(w http.ResponseWriter, _ *http.Request, idx int) {
	rec, analysis, ok := s.reportInputs(w, idx)
	if !ok {
		return
	}
	data, err := report.RenderPDF(rec, analysis)
	if err != nil {
		s.Log.Error().Err(err).Int("patient", idx).Msg("render pdf")
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="medical_report.pdf"`)
	w.Write(data)
}

// reportInputs loads the record and its cached analysis, writing the
// error response itself when either is missing.
func (s *Server) reportInputs(w http.ResponseWriter, idx int) (pkg.PatientRecord, string, bool) {
	rec, err := s.Patients.Get(idx)
	if err != nil {
		http.Error(w, "patient record not found", http.StatusNotFound)
		return pkg.PatientRecord{}, "", false
	}
	analysis, ok := s.Patients.Analysis(idx)
	if !ok {
		http.Error(w, "analysis not generated yet", http.StatusConflict)
		return pkg.PatientRecord{}, "", false
	}
	return rec, analysis, true
}

// handleFeedback relays feedback plus the active conversation by email.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req pkg.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "empty feedback", http.StatusBadRequest)
		return
	}
	turns, err := s.Store.Turns(s.Store.ActiveID())
	if err != nil {
		http.Error(w, "conversation not found", http.StatusNotFound)
		return
	}
	if err := s.Mailer.Send(req.Text, turns); err != nil {
		if errors.Is(err, mail.ErrNotConfigured) {
			http.Error(w, "feedback email is not configured", http.StatusServiceUnavailable)
			return
		}
		s.Log.Error().Err(err).Msg("send feedback")
		http.Error(w, "failed to send feedback", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
