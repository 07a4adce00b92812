package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnesSym/medical-test/internal/core"
	"github.com/AnesSym/medical-test/internal/llm"
	"github.com/AnesSym/medical-test/internal/mail"
	"github.com/AnesSym/medical-test/pkg"
)

// fakeLLM scripts the completion client for handler tests.
type fakeLLM struct {
	completeText string
	completeErr  error
	fragments    []string
	streamErr    error
}

func (f *fakeLLM) Complete(_ context.Context, _ []llm.Message, _ llm.Params) (string, error) {
	return f.completeText, f.completeErr
}

func (f *fakeLLM) Stream(_ context.Context, _ []llm.Message, _ llm.Params) (llm.FragmentStream, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return &fakeStream{fragments: f.fragments}, nil
}

type fakeStream struct {
	fragments []string
	pos       int
}

func (s *fakeStream) Recv() (string, error) {
	if s.pos >= len(s.fragments) {
		return "", io.EOF
	}
	f := s.fragments[s.pos]
	s.pos++
	return f, nil
}

func (s *fakeStream) Close() error { return nil }

func newTestServer(fake *fakeLLM) *Server {
	return NewServer(
		core.NewStore(),
		core.NewPatientLog(),
		core.NewChatService(fake),
		&mail.FeedbackMailer{Host: "smtp.gmail.com", Port: 587},
		zerolog.Nop(),
	)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestConversationLifecycle(t *testing.T) {
	srv := newTestServer(&fakeLLM{})

	w := doJSON(t, srv, http.MethodPost, "/api/conversations", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"]
	require.NotEmpty(t, id)

	w = doJSON(t, srv, http.MethodGet, "/api/conversations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []pkg.ConversationSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2, "initial conversation plus created one")
	assert.Equal(t, id, list[0].ID, "most recent first")
	assert.True(t, list[0].Active)

	w = doJSON(t, srv, http.MethodDelete, "/api/conversations/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, srv, http.MethodDelete, "/api/conversations/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/conversations/"+id+"/activate", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostMessageStreamsAndCompletesTurn(t *testing.T) {
	srv := newTestServer(&fakeLLM{fragments: []string{"Go to ", "the ER ", "URGENTLY"}})
	id := srv.Store.ActiveID()

	w := doJSON(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"content":"severe chest pain"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, `event: delta`)
	assert.Contains(t, body, `Go to ▌`)
	assert.Contains(t, body, `Go to the ER ▌`)
	assert.Contains(t, body, `event: done`)
	assert.Contains(t, body, `"emergency":true`)

	turns, err := srv.Store.Turns(id)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.True(t, turns[0].Answered())
	assert.Equal(t, "Go to the ER URGENTLY", *turns[0].Assistant)
}

func TestPostMessageUpstreamErrorLeavesTurnOpen(t *testing.T) {
	fake := &fakeLLM{streamErr: errors.New("upstream down")}
	srv := newTestServer(fake)
	id := srv.Store.ActiveID()

	w := doJSON(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"content":"hello"}`)
	assert.Contains(t, w.Body.String(), "event: error")

	turns, err := srv.Store.Turns(id)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.False(t, turns[0].Answered(), "turn stays open for resubmission")

	// Resubmitting once the service recovers answers the same turn
	// instead of leaving an unanswered one behind.
	fake.streamErr = nil
	fake.fragments = []string{"hi there"}
	w = doJSON(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"content":"hello"}`)
	assert.Contains(t, w.Body.String(), "event: done")

	turns, err = srv.Store.Turns(id)
	require.NoError(t, err)
	require.Len(t, turns, 1, "resubmission reuses the open turn")
	require.True(t, turns[0].Answered())
	assert.Equal(t, "hi there", *turns[0].Assistant)
}

func TestPostMessageValidation(t *testing.T) {
	srv := newTestServer(&fakeLLM{})
	id := srv.Store.ActiveID()

	w := doJSON(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"content":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/conversations/"+id+"/messages", `{"content":"hi","kind":"diagnostic"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/conversations/unknown/messages", `{"content":"hi"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpecialResponseRecordsTurn(t *testing.T) {
	srv := newTestServer(&fakeLLM{fragments: []string{"guideline refs"}})
	id := srv.Store.ActiveID()

	w := doJSON(t, srv, http.MethodPost, "/api/special", `{"kind":"medical_literature"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "event: done")

	turns, err := srv.Store.Turns(id)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "medical_literature", turns[0].User)
	assert.Equal(t, "guideline refs", *turns[0].Assistant)
}

func TestSpecialRejectsChatKinds(t *testing.T) {
	srv := newTestServer(&fakeLLM{})
	w := doJSON(t, srv, http.MethodPost, "/api/special", `{"kind":"triage"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatientIntakeAnalysisAndReports(t *testing.T) {
	srv := newTestServer(&fakeLLM{completeText: "**Potential Diagnoses:** likely viral infection"})

	rec := `{"name":"Amina H.","age":44,"gender":"Female","symptoms":"fever","temperature":38.2,"heart_rate":90,"bp_systolic":120,"bp_diastolic":80,"oxygen_saturation":97}`
	w := doJSON(t, srv, http.MethodPost, "/api/patients", rec)
	require.Equal(t, http.StatusCreated, w.Code)

	// Report before analysis is a conflict.
	w = doJSON(t, srv, http.MethodGet, "/api/patients/0/report", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/patients/0/analysis", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp pkg.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Analysis, "Potential Diagnoses")
	assert.False(t, resp.Emergency)

	w = doJSON(t, srv, http.MethodGet, "/api/patients/0/report", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MEDICAL REPORT")
	assert.Contains(t, w.Body.String(), "Amina H.")

	w = doJSON(t, srv, http.MethodGet, "/api/patients/0/report.pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = doJSON(t, srv, http.MethodGet, "/api/patients/7/report", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisUpstreamError(t *testing.T) {
	srv := newTestServer(&fakeLLM{completeErr: errors.New("rate limited")})
	doJSON(t, srv, http.MethodPost, "/api/patients", `{"name":"x"}`)

	w := doJSON(t, srv, http.MethodPost, "/api/patients/0/analysis", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestFeedbackWithoutCredentials(t *testing.T) {
	srv := newTestServer(&fakeLLM{})

	w := doJSON(t, srv, http.MethodPost, "/api/feedback", `{"text":"nice"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/feedback", `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
