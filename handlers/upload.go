package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"spherify/services"
	"spherify/utils"

	"github.com/gin-gonic/gin"
)

// UploadFiles accepts a multipart batch under the "files" field and streams
// newline-delimited JSON progress events back. Each part's filename may carry
// folder segments relative to the destination; missing folders are created.
// Validation failures before the first byte moves respond with a plain JSON
// error instead of a stream.
func UploadFiles(c *gin.Context) {
	teamID, userID := currentIdentity(c)
	destPath := c.DefaultQuery("path", "/")

	form, err := c.MultipartForm()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, services.CodeInvalidRequest, "invalid multipart request")
		return
	}
	headers := form.File["files"]

	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFileFromHeader(fh))
	}

	encoder := json.NewEncoder(c.Writer)
	streaming := false
	emit := func(event interface{}) error {
		if !streaming {
			c.Header("Content-Type", "application/x-ndjson")
			c.Header("Cache-Control", "no-cache")
			c.Status(http.StatusOK)
			streaming = true
		}
		if err := encoder.Encode(event); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	if err := getServices().Upload.UploadBatch(c.Request.Context(), teamID, userID, destPath, files, emit); err != nil {
		if !streaming {
			respondServiceError(c, err)
		}
		return
	}
}

func uploadFileFromHeader(fh *multipart.FileHeader) services.UploadFile {
	return services.UploadFile{
		RelPath: fh.Filename,
		Size:    fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
