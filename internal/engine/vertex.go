package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/futureforceai/careerprep/internal/models"
	"github.com/futureforceai/careerprep/internal/providers/llm"
	"github.com/google/uuid"
)

// VertexEngine generates interviewer turns directly with an LLM instead of
// calling the AI backend. Session ids are minted locally.
type VertexEngine struct {
	provider llm.Provider
}

func NewVertexEngine(provider llm.Provider) *VertexEngine {
	return &VertexEngine{provider: provider}
}

func (e *VertexEngine) StartInterview(ctx context.Context, req StartRequest) (*StartResult, error) {
	return &StartResult{
		SessionID:    uuid.NewString(),
		FirstMessage: OpeningMessage(req.JobRole, req.FromSavedCV),
	}, nil
}

func (e *VertexEngine) ContinueInterview(ctx context.Context, conv *models.Conversation, userMessage string) ([]models.ChatMessage, error) {
	messages := append(append([]models.ChatMessage{}, conv.Messages...), models.ChatMessage{
		Sender: models.SenderUser,
		Text:   userMessage,
	})

	var prompt string
	if aiCount(messages) >= conv.MaxQuestions {
		prompt = feedbackPrompt(messages)
	} else {
		prompt = interviewerPrompt(conv.CVText, conv.JobRole, messages)
	}

	reply, err := e.provider.Answer(ctx, prompt)
	if err != nil {
		return nil, err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, ErrMalformedReply
	}

	return append(messages, models.ChatMessage{Sender: models.SenderAI, Text: reply}), nil
}

func aiCount(messages []models.ChatMessage) int {
	n := 0
	for _, m := range messages {
		if m.Sender == models.SenderAI {
			n++
		}
	}
	return n
}

func transcript(messages []models.ChatMessage) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Sender == models.SenderAI {
			b.WriteString("Interviewer: " + m.Text + "\n")
		} else {
			b.WriteString("Candidate: " + m.Text + "\n")
		}
	}
	return b.String()
}

func interviewerPrompt(cvText, jobRole string, messages []models.ChatMessage) string {
	return fmt.Sprintf(
		"You are a highly knowledgeable AI interviewer, specializing in %s interviews.\n"+
			"You have the candidate's CV:\n\n%s\n\n"+
			"Your goal is to ask questions one by one, evaluate correctness, and give professional yet friendly feedback. "+
			"If the candidate's answer is unclear or incomplete, politely ask for more details. "+
			"Continue until you've asked %d questions total or the candidate is done.\n\n"+
			"Please keep responses focused, realistic, and supportive.\n\n"+
			"Conversation so far:\n%s\nInterviewer:",
		jobRole, cvText, models.MaxInterviewQuestions, transcript(messages),
	)
}

func feedbackPrompt(messages []models.ChatMessage) string {
	return "You are a professional interviewer who just finished interviewing a candidate. " +
		"Below is the entire conversation:\n\n" + transcript(messages) + "\n\n" +
		"Now, please provide a final, motivational, and human-like feedback summary for the candidate. " +
		"Focus on strengths, areas to improve, and encouraging advice. " +
		"End your feedback with a short, positive note of encouragement."
}
