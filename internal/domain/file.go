package domain

import (
	"context"
)

// UploadFolder is the destination prefix for uploaded files
type UploadFolder string

// Upload folder constants
const (
	FolderUser       UploadFolder = "user"
	FolderNews       UploadFolder = "news"
	FolderGroup      UploadFolder = "group"
	FolderTournament UploadFolder = "tournament"
	FolderStorage    UploadFolder = "storage"
)

// Valid reports whether the folder is a known destination
func (f UploadFolder) Valid() bool {
	switch f {
	case FolderUser, FolderNews, FolderGroup, FolderTournament, FolderStorage:
		return true
	}
	return false
}

// FileRepository defines the interface for file storage backends
type FileRepository interface {
	// Upload saves a file under the folder prefix and returns its public URL
	Upload(ctx context.Context, folder UploadFolder, filename string, contentType string, data []byte) (string, error)
}
