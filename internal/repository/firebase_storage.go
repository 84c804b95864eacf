package repository

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	firebaseStorage "firebase.google.com/go/v4/storage"
	"github.com/matchpoint-app/matchpoint/internal/domain"
)

// FirebaseStorageRepository implements domain.FileRepository on a Firebase
// storage bucket. Uploaded objects are made publicly readable and served
// through the Firebase download endpoint.
type FirebaseStorageRepository struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewFirebaseStorageRepository creates a new Firebase storage repository
func NewFirebaseStorageRepository(ctx context.Context, client *firebaseStorage.Client, bucketName string) (*FirebaseStorageRepository, error) {
	var (
		bucket *storage.BucketHandle
		err    error
	)
	if bucketName != "" {
		bucket, err = client.Bucket(bucketName)
	} else {
		bucket, err = client.DefaultBucket()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open storage bucket: %w", err)
	}

	attrs, err := bucket.Attrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read bucket attributes: %w", err)
	}
	return &FirebaseStorageRepository{bucket: bucket, bucketName: attrs.Name}, nil
}

// Upload saves a file under the folder prefix and returns its public URL
func (r *FirebaseStorageRepository) Upload(ctx context.Context, folder domain.UploadFolder, filename string, contentType string, data []byte) (string, error) {
	objectName := fmt.Sprintf("%s/%s", folder, filename)

	obj := r.bucket.Object(objectName)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = "publicRead"

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", objectName, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s/%s", r.bucketName, folder, url.PathEscape(filename)), nil
}
