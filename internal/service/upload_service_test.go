package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyFileRepo fails uploads whose name contains "bad"
type flakyFileRepo struct {
	mu       sync.Mutex
	uploaded []string
}

func (f *flakyFileRepo) Upload(ctx context.Context, folder domain.UploadFolder, name, contentType string, data []byte) (string, error) {
	if strings.Contains(name, "bad") {
		return "", errors.New("storage rejected the object")
	}
	f.mu.Lock()
	f.uploaded = append(f.uploaded, name)
	f.mu.Unlock()
	return "https://cdn.example.com/" + string(folder) + "/" + name, nil
}

func TestUploadAllMapsFailuresToEmptyURLs(t *testing.T) {
	repo := &flakyFileRepo{}
	svc := NewUploadService(repo)

	result := svc.UploadAll(context.Background(), domain.FolderTournament, []UploadFile{
		{Name: "poster.png", ContentType: "image/png", Data: []byte("png")},
		{Name: "bad-scan.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
		{Name: "empty.jpg", ContentType: "image/jpeg", Data: nil},
		{Name: "rules.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
	})

	assert.True(t, result.Success, "individual failures must not fail the batch")
	require.Len(t, result.URLs, 4)
	assert.Contains(t, result.URLs[0], "poster.png")
	assert.Empty(t, result.URLs[1], "a rejected file yields an empty URL at its position")
	assert.Empty(t, result.URLs[2], "an unreadable file yields an empty URL at its position")
	assert.Contains(t, result.URLs[3], "rules.pdf")
	assert.Len(t, repo.uploaded, 2)
}

func TestUploadAllEmptyBatch(t *testing.T) {
	svc := NewUploadService(&flakyFileRepo{})

	result := svc.UploadAll(context.Background(), domain.FolderUser, nil)
	assert.True(t, result.Success)
	assert.Empty(t, result.URLs)
}
