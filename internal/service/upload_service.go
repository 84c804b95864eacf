package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/matchpoint-app/matchpoint/internal/domain"
)

// UploadFile is one file buffer received from a multipart request
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadResult reports a batch upload. A file that failed to upload is
// represented by an empty-string URL; the batch itself still succeeds.
type UploadResult struct {
	Success bool     `json:"success"`
	URLs    []string `json:"urls"`
}

// UploadService stores file batches in the configured storage backend
type UploadService struct {
	files domain.FileRepository
}

// NewUploadService creates a new UploadService
func NewUploadService(files domain.FileRepository) *UploadService {
	return &UploadService{files: files}
}

// UploadAll uploads every file in the batch concurrently. Individual
// failures are swallowed and yield an empty URL at that position.
func (s *UploadService) UploadAll(ctx context.Context, folder domain.UploadFolder, files []UploadFile) UploadResult {
	urls := make([]string, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		i, file := i, file
		wg.Add(1)
		go func() {
			defer wg.Done()
			if len(file.Data) == 0 {
				log.Printf("[Upload] Skipping empty file %s", file.Name)
				return
			}
			name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), file.Name)
			url, err := s.files.Upload(ctx, folder, name, file.ContentType, file.Data)
			if err != nil {
				log.Printf("[Upload] Failed to store %s: %v", file.Name, err)
				return
			}
			urls[i] = url
		}()
	}
	wg.Wait()

	return UploadResult{Success: true, URLs: urls}
}
