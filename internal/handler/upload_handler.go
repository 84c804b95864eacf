package handler

import (
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/service"
)

// maxUploadFiles caps one multipart batch
const maxUploadFiles = 10

// UploadHandler handles file upload API endpoints
type UploadHandler struct {
	uploads *service.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload handles POST /v1/files
// Multipart form: "folder" field plus one or more "files" parts. A file
// that fails to store yields an empty URL at its position in the result.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	folder := domain.UploadFolder(c.FormValue("folder"))
	if !folder.Valid() {
		return failBadRequest(c, "invalid upload folder")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return failBadRequest(c, "invalid multipart form")
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return failBadRequest(c, "no files provided")
	}
	if len(fileHeaders) > maxUploadFiles {
		return failBadRequest(c, "too many files in one batch")
	}

	files := make([]service.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			log.Printf("[Upload] Failed to open %s: %v", fh.Filename, err)
			files = append(files, service.UploadFile{Name: fh.Filename})
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Printf("[Upload] Failed to read %s: %v", fh.Filename, err)
			files = append(files, service.UploadFile{Name: fh.Filename})
			continue
		}
		files = append(files, service.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result := h.uploads.UploadAll(c.UserContext(), folder, files)
	return c.JSON(result)
}
