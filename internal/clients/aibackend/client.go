// Package aibackend is the HTTP client for the external AI service that
// generates interview questions, resume analyses, and CV text extraction.
package aibackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/futureforceai/careerprep/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type StartResponse struct {
	SessionID      string             `json:"session_id"`
	FirstAIMessage models.ChatMessage `json:"first_ai_message"`
}

type chatResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

type extractResponse struct {
	ExtractedText string `json:"extracted_text"`
}

// StartInterview asks the backend to open a session for the given CV and role.
func (c *Client) StartInterview(ctx context.Context, userID, jobRole, cvText string) (*StartResponse, error) {
	var out StartResponse
	err := c.postJSON(ctx, "/api/interview/start", map[string]string{
		"user_id":  userID,
		"job_role": jobRole,
		"cv_text":  cvText,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat forwards one user turn and returns the backend's canonical message list.
func (c *Client) Chat(ctx context.Context, sessionID, userMessage string) ([]models.ChatMessage, error) {
	var out chatResponse
	err := c.postJSON(ctx, "/api/interview/chat", map[string]string{
		"session_id":   sessionID,
		"user_message": userMessage,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// ExtractText uploads CV bytes for text extraction.
func (c *Client) ExtractText(ctx context.Context, filename string, r io.Reader) (string, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("cv_file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pdf/extract-text", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out extractResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.ExtractedText, nil
}

// AnalyzeResume returns the backend's ATS analysis verbatim.
func (c *Client) AnalyzeResume(ctx context.Context, resumeText, targetRole string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.postJSON(ctx, "/api/resume/analyze", map[string]string{
		"resume_text": resumeText,
		"target_role": targetRole,
	}, &out)
	return out, err
}

// SuggestRoles returns role suggestions for a resume verbatim.
func (c *Client) SuggestRoles(ctx context.Context, resumeText string) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.postJSON(ctx, "/api/resume/suggest-roles", map[string]string{
		"resume_text": resumeText,
	}, &out)
	return out, err
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dst)
}

func (c *Client) do(req *http.Request, dst any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("ai backend %s: status %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if dst == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
