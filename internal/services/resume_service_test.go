package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/futureforceai/careerprep/internal/models"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	analysis json.RawMessage
	roles    json.RawMessage
	err      error

	lastText string
	lastRole string
}

func (a *fakeAnalyzer) AnalyzeResume(_ context.Context, resumeText, targetRole string) (json.RawMessage, error) {
	a.lastText = resumeText
	a.lastRole = targetRole
	return a.analysis, a.err
}

func (a *fakeAnalyzer) SuggestRoles(_ context.Context, resumeText string) (json.RawMessage, error) {
	a.lastText = resumeText
	return a.roles, a.err
}

func TestResumeAnalyze(t *testing.T) {
	cvs := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "u1", ExtractedText: "resume body"},
	}}
	analyzer := &fakeAnalyzer{analysis: json.RawMessage(`{"score":82}`)}
	svc := NewResumeService(cvs, &fakeReader{}, analyzer)

	out, err := svc.Analyze(context.Background(), "u1", "cv-1", "SRE")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":82}`, string(out))
	assert.Equal(t, "resume body", analyzer.lastText)
	assert.Equal(t, "SRE", analyzer.lastRole)
}

func TestResumeAnalyzeFallsBackToStoredBytes(t *testing.T) {
	cvs := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "u1", FileName: "cv.txt", StoragePath: "uploads/cv.txt"},
	}}
	files := &fakeReader{data: map[string][]byte{"uploads/cv.txt": []byte("raw resume")}}
	analyzer := &fakeAnalyzer{analysis: json.RawMessage(`{}`)}
	svc := NewResumeService(cvs, files, analyzer)

	_, err := svc.Analyze(context.Background(), "u1", "cv-1", "SRE")
	require.NoError(t, err)
	assert.Equal(t, "raw resume", analyzer.lastText)
}

func TestResumeAnalyzeValidation(t *testing.T) {
	cvs := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "owner", ExtractedText: "body"},
	}}
	svc := NewResumeService(cvs, &fakeReader{}, &fakeAnalyzer{})

	_, err := svc.Analyze(context.Background(), "u1", "cv-1", "  ")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Analyze(context.Background(), "intruder", "cv-1", "SRE")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	_, err = svc.Analyze(context.Background(), "u1", "missing", "SRE")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestResumeAnalyzeUpstreamDown(t *testing.T) {
	cvs := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "u1", ExtractedText: "body"},
	}}
	svc := NewResumeService(cvs, &fakeReader{}, &fakeAnalyzer{err: errors.New("503")})

	_, err := svc.Analyze(context.Background(), "u1", "cv-1", "SRE")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestSuggestRoles(t *testing.T) {
	cvs := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "u1", ExtractedText: "body"},
	}}
	analyzer := &fakeAnalyzer{roles: json.RawMessage(`{"roles":["SRE","Platform Engineer"]}`)}
	svc := NewResumeService(cvs, &fakeReader{}, analyzer)

	out, err := svc.SuggestRoles(context.Background(), "u1", "cv-1")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Platform Engineer")
}

func TestResumeUnreadableCV(t *testing.T) {
	cvs := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "u1", StoragePath: "uploads/missing"},
	}}
	svc := NewResumeService(cvs, &fakeReader{err: errors.New("gone")}, &fakeAnalyzer{})

	_, err := svc.SuggestRoles(context.Background(), "u1", "cv-1")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}
