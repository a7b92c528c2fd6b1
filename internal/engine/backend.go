package engine

import (
	"context"

	"github.com/futureforceai/careerprep/internal/clients/aibackend"
	"github.com/futureforceai/careerprep/internal/models"
)

// BackendEngine relays interview turns to the external AI backend.
type BackendEngine struct {
	client *aibackend.Client
}

func NewBackendEngine(client *aibackend.Client) *BackendEngine {
	return &BackendEngine{client: client}
}

func (e *BackendEngine) StartInterview(ctx context.Context, req StartRequest) (*StartResult, error) {
	resp, err := e.client.StartInterview(ctx, req.UserID, req.JobRole, req.CVText)
	if err != nil {
		return nil, err
	}
	if resp.SessionID == "" || resp.FirstAIMessage.Text == "" {
		return nil, ErrMalformedReply
	}
	if resp.FirstAIMessage.Sender == "" {
		resp.FirstAIMessage.Sender = models.SenderAI
	}
	return &StartResult{
		SessionID:    resp.SessionID,
		FirstMessage: resp.FirstAIMessage,
	}, nil
}

func (e *BackendEngine) ContinueInterview(ctx context.Context, conv *models.Conversation, userMessage string) ([]models.ChatMessage, error) {
	reply, err := e.client.Chat(ctx, conv.SessionID, userMessage)
	if err != nil {
		return nil, err
	}
	if !WellFormed(conv.Messages, reply, userMessage) {
		return nil, ErrMalformedReply
	}
	return reply, nil
}
