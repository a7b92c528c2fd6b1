package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/futureforceai/careerprep/internal/models"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	uploadErr error
	deleteErr error

	uploads map[string][]byte
	deleted []string
}

func (s *fakeStore) Upload(_ context.Context, objectName, _ string, r io.Reader) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if s.uploads == nil {
		s.uploads = map[string][]byte{}
	}
	path := "fake/" + objectName
	s.uploads[path] = b
	return path, nil
}

func (s *fakeStore) ReadAll(_ context.Context, path string) ([]byte, error) {
	if b, ok := s.uploads[path]; ok {
		return b, nil
	}
	return nil, errors.New("no such object")
}

func (s *fakeStore) Delete(_ context.Context, path string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, path)
	delete(s.uploads, path)
	return nil
}

type fakeEnqueuer struct {
	ids []string
	err error
}

func (q *fakeEnqueuer) Enqueue(_ context.Context, cvID string) error {
	q.ids = append(q.ids, cvID)
	return q.err
}

func TestCVUpload(t *testing.T) {
	repo := &fakeCVRepo{}
	store := &fakeStore{}
	queue := &fakeEnqueuer{}
	svc := NewCVService(repo, store, queue, discardLogger())

	cv, err := svc.Upload(context.Background(), "u1", "My Résumé (final).pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)

	assert.NotEmpty(t, cv.ID)
	assert.Equal(t, "u1", cv.UserID)
	assert.Equal(t, "My Résumé (final).pdf", cv.OriginalName)
	assert.Equal(t, int64(4), cv.FileSize)
	assert.Equal(t, "application/pdf", cv.ContentType)
	assert.Equal(t, cv.UploadedAt, cv.LastUsed)

	// stored under the user's prefix with a sanitized name
	assert.Contains(t, cv.StoragePath, "cv/u1/")
	assert.NotContains(t, cv.StoragePath, " ")
	assert.NotContains(t, cv.StoragePath, "(")

	require.Len(t, repo.inserted, 1)
	assert.Equal(t, cv, repo.inserted[0])
	assert.Equal(t, []string{cv.ID}, queue.ids)
}

func TestCVUploadEmpty(t *testing.T) {
	svc := NewCVService(&fakeCVRepo{}, &fakeStore{}, nil, discardLogger())

	_, err := svc.Upload(context.Background(), "u1", "cv.pdf", "application/pdf", nil)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestCVUploadStoreDown(t *testing.T) {
	svc := NewCVService(&fakeCVRepo{}, &fakeStore{uploadErr: errors.New("bucket gone")}, nil, discardLogger())

	_, err := svc.Upload(context.Background(), "u1", "cv.pdf", "application/pdf", []byte("x"))
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestCVUploadInsertFailureCleansUpFile(t *testing.T) {
	repo := &fakeCVRepo{insertErr: errors.New("mongo down")}
	store := &fakeStore{}
	svc := NewCVService(repo, store, nil, discardLogger())

	_, err := svc.Upload(context.Background(), "u1", "cv.pdf", "application/pdf", []byte("x"))
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInternal))
	require.Len(t, store.deleted, 1)
	assert.Empty(t, store.uploads)
}

func TestCVUploadEnqueueFailureIsNotFatal(t *testing.T) {
	repo := &fakeCVRepo{}
	queue := &fakeEnqueuer{err: errors.New("redis down")}
	svc := NewCVService(repo, &fakeStore{}, queue, discardLogger())

	cv, err := svc.Upload(context.Background(), "u1", "cv.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)
	assert.NotEmpty(t, cv.ID)
}

func TestCVList(t *testing.T) {
	repo := &fakeCVRepo{listRows: []models.CV{
		{ID: "cv-1", OriginalName: "a.pdf", FileSize: 10},
		{ID: "cv-2", OriginalName: "b.pdf", FileSize: 20},
	}}
	svc := NewCVService(repo, &fakeStore{}, nil, discardLogger())

	out, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a.pdf", out[0].Filename)
	assert.Equal(t, int64(20), out[1].Size)
}

func TestCVListDegradesToEmpty(t *testing.T) {
	repo := &fakeCVRepo{listErr: errors.New("mongo down")}
	svc := NewCVService(repo, &fakeStore{}, nil, discardLogger())

	out, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestCVDelete(t *testing.T) {
	store := &fakeStore{uploads: map[string][]byte{"fake/cv/u1/stored.pdf": []byte("x")}}
	repo := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "u1", StoragePath: "fake/cv/u1/stored.pdf"},
	}}
	svc := NewCVService(repo, store, nil, discardLogger())

	require.NoError(t, svc.Delete(context.Background(), "u1", "cv-1"))
	assert.Equal(t, []string{"cv-1"}, repo.deleted)
	assert.Equal(t, []string{"fake/cv/u1/stored.pdf"}, store.deleted)
}

func TestCVDeleteOwnership(t *testing.T) {
	repo := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "owner"},
	}}
	svc := NewCVService(repo, &fakeStore{}, nil, discardLogger())

	err := svc.Delete(context.Background(), "intruder", "cv-1")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
	assert.Empty(t, repo.deleted)

	err = svc.Delete(context.Background(), "u1", "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestCVDeleteFileErrorIsNotFatal(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("bucket gone")}
	repo := &fakeCVRepo{byID: map[string]*models.CV{
		"cv-1": {ID: "cv-1", UserID: "u1", StoragePath: "fake/cv/u1/stored.pdf"},
	}}
	svc := NewCVService(repo, store, nil, discardLogger())

	require.NoError(t, svc.Delete(context.Background(), "u1", "cv-1"))
	assert.Equal(t, []string{"cv-1"}, repo.deleted)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "re_sume_v2_.pdf", sanitizeName("re sume(v2).pdf"))
	assert.Equal(t, "cv", sanitizeName(""))
	assert.Equal(t, "passwd", sanitizeName("../../etc/passwd"))
}
