package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futureforceai/careerprep/internal/clients/aibackend"
	"github.com/futureforceai/careerprep/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backendFor(t *testing.T, handler http.HandlerFunc) *BackendEngine {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackendEngine(aibackend.New(srv.URL, 5*time.Second))
}

func TestBackendEngineStart(t *testing.T) {
	e := backendFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/interview/start", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"session_id":       "sess-1",
			"first_ai_message": map[string]string{"sender": "ai", "text": "hello"},
		})
	})

	res, err := e.StartInterview(context.Background(), StartRequest{
		UserID: "u1", JobRole: "SRE", CVText: "cv",
	})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", res.SessionID)
	assert.Equal(t, models.ChatMessage{Sender: "ai", Text: "hello"}, res.FirstMessage)
}

func TestBackendEngineStartDefaultsSender(t *testing.T) {
	e := backendFor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"session_id":       "sess-1",
			"first_ai_message": map[string]string{"text": "hello"},
		})
	})

	res, err := e.StartInterview(context.Background(), StartRequest{UserID: "u1", JobRole: "SRE"})
	require.NoError(t, err)
	assert.Equal(t, models.SenderAI, res.FirstMessage.Sender)
}

func TestBackendEngineStartMissingSession(t *testing.T) {
	e := backendFor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"first_ai_message": map[string]string{"sender": "ai", "text": "hello"},
		})
	})

	_, err := e.StartInterview(context.Background(), StartRequest{UserID: "u1", JobRole: "SRE"})
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestBackendEngineContinue(t *testing.T) {
	prior := []models.ChatMessage{{Sender: models.SenderAI, Text: "q1"}}
	reply := append(append([]models.ChatMessage{}, prior...),
		models.ChatMessage{Sender: models.SenderUser, Text: "a1"},
		models.ChatMessage{Sender: models.SenderAI, Text: "q2"},
	)

	e := backendFor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/interview/chat", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"messages": reply})
	})

	conv := &models.Conversation{SessionID: "sess-1", Messages: prior}
	out, err := e.ContinueInterview(context.Background(), conv, "a1")
	require.NoError(t, err)
	assert.Equal(t, reply, out)
}

func TestBackendEngineContinueTruncatedReply(t *testing.T) {
	prior := []models.ChatMessage{
		{Sender: models.SenderAI, Text: "q1"},
		{Sender: models.SenderUser, Text: "a1"},
		{Sender: models.SenderAI, Text: "q2"},
	}

	e := backendFor(t, func(w http.ResponseWriter, r *http.Request) {
		// shorter than what we already hold
		json.NewEncoder(w).Encode(map[string]any{
			"messages": []models.ChatMessage{{Sender: models.SenderAI, Text: "q1"}},
		})
	})

	conv := &models.Conversation{SessionID: "sess-1", Messages: prior}
	_, err := e.ContinueInterview(context.Background(), conv, "a2")
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestBackendEngineContinueDroppedUserTurn(t *testing.T) {
	prior := []models.ChatMessage{{Sender: models.SenderAI, Text: "q1"}}

	e := backendFor(t, func(w http.ResponseWriter, r *http.Request) {
		// grew by one AI turn but the just-sent user message is gone
		json.NewEncoder(w).Encode(map[string]any{
			"messages": append(append([]models.ChatMessage{}, prior...),
				models.ChatMessage{Sender: models.SenderAI, Text: "q2"}),
		})
	})

	conv := &models.Conversation{SessionID: "sess-1", Messages: prior}
	_, err := e.ContinueInterview(context.Background(), conv, "a1")
	require.ErrorIs(t, err, ErrMalformedReply)
}

func TestBackendEngineContinueUpstreamError(t *testing.T) {
	e := backendFor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	conv := &models.Conversation{SessionID: "sess-1"}
	_, err := e.ContinueInterview(context.Background(), conv, "a1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMalformedReply)
}
