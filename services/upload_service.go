package services

import (
	"context"
	"errors"
	"io"
	"net/http"

	"spherify/config"
	"spherify/logger"
	"spherify/models"

	"github.com/google/uuid"
)

const (
	EventProgress     = "progress"
	EventFileComplete = "fileComplete"
	EventFileError    = "fileError"
	EventSummary      = "summary"
)

type ProgressEvent struct {
	Type     string `json:"type"`
	Path     string `json:"file"`
	Progress int    `json:"progress"`
}

type FileCompleteEvent struct {
	Type     string `json:"type"`
	Path     string `json:"file"`
	EntityID uint   `json:"entity_id"`
	Size     int64  `json:"size"`
}

type FileErrorEvent struct {
	Type    string `json:"type"`
	Path    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

type SummaryEvent struct {
	Type       string `json:"type"`
	TotalFiles int    `json:"totalFiles"`
	Completed  int    `json:"completedFiles"`
	Failed     int    `json:"failedFiles"`
}

// EmitFunc delivers one event to the client stream. An error means the
// stream is gone and the batch should stop.
type EmitFunc func(event interface{}) error

type fileStatus string

const (
	statusPending   fileStatus = "pending"
	statusUploading fileStatus = "uploading"
	statusComplete  fileStatus = "complete"
	statusError     fileStatus = "error"
)

// uploadSession is the ephemeral batch state; it lives for one request and
// is discarded after the summary.
type uploadSession struct {
	id        string
	statuses  map[string]fileStatus
	completed int
	failed    int
}

func newUploadSession(files []UploadFile) *uploadSession {
	s := &uploadSession{id: uuid.NewString(), statuses: make(map[string]fileStatus, len(files))}
	for i := range files {
		s.statuses[files[i].RelPath] = statusPending
	}
	return s
}

type UploadFile struct {
	// RelPath is relative to the batch destination and may contain folder
	// segments, e.g. "reports/q3/summary.pdf".
	RelPath string
	Size    int64
	Open    func() (io.ReadCloser, error)
}

type UploadService interface {
	// UploadBatch processes files sequentially, emitting progress and one
	// terminal event per started file, then exactly one summary. Request
	// level failures (bad destination, empty batch) return before anything
	// is emitted. Cancellation stops future file starts; the file in flight
	// still reaches a terminal event.
	UploadBatch(ctx context.Context, teamID uint, userID uint, destPath string, files []UploadFile, emit EmitFunc) error
}

type uploadService struct {
	resolver  ResolverService
	lifecycle LifecycleService
	quota     QuotaService
}

func NewUploadService(resolver ResolverService, lifecycle LifecycleService, quota QuotaService) UploadService {
	return &uploadService{resolver: resolver, lifecycle: lifecycle, quota: quota}
}

func (s *uploadService) UploadBatch(ctx context.Context, teamID uint, userID uint, destPath string, files []UploadFile, emit EmitFunc) error {
	if len(files) == 0 {
		return newAppError(http.StatusBadRequest, CodeInvalidRequest, "upload batch is empty", nil)
	}

	dest, err := s.resolver.Resolve(ctx, teamID, destPath)
	if err != nil {
		return err
	}
	if !dest.IsFolder() {
		return newAppError(http.StatusBadRequest, CodeInvalidRequest, "upload destination is not a folder", nil)
	}

	session := newUploadSession(files)
	logger.Infof("upload session %s: team=%d files=%d dest=%q", session.id, teamID, len(files), dest.Path)

	for i := range files {
		if ctx.Err() != nil {
			logger.Infof("upload session %s: canceled before file %d of %d", session.id, i+1, len(files))
			break
		}
		session.statuses[files[i].RelPath] = statusUploading

		if err := s.uploadOne(ctx, teamID, userID, dest, files[i], emit); err != nil {
			var appErr *AppError
			if !errors.As(err, &appErr) {
				appErr = newAppError(http.StatusInternalServerError, CodeInternal, "upload failed", err)
			}
			session.statuses[files[i].RelPath] = statusError
			session.failed++
			if emitErr := emit(FileErrorEvent{Type: EventFileError, Path: files[i].RelPath, Code: appErr.Code, Message: appErr.Message}); emitErr != nil {
				return emitErr
			}
			continue
		}
		session.statuses[files[i].RelPath] = statusComplete
		session.completed++
	}

	s.quota.Recheck(ctx, teamID)

	logger.Infof("upload session %s: completed=%d failed=%d", session.id, session.completed, session.failed)
	return emit(SummaryEvent{
		Type:       EventSummary,
		TotalFiles: session.completed + session.failed,
		Completed:  session.completed,
		Failed:     session.failed,
	})
}

func (s *uploadService) uploadOne(ctx context.Context, teamID uint, userID uint, dest models.Entity, file UploadFile, emit EmitFunc) error {
	if file.Size < 0 {
		return newAppError(http.StatusBadRequest, CodeInvalidRequest, "negative file size", nil)
	}
	if max := config.AppConfig.Upload.MaxFileSize; max > 0 && file.Size > max {
		return newAppError(http.StatusRequestEntityTooLarge, CodeInvalidRequest, "file exceeds the maximum upload size", nil)
	}

	segments := splitLogicalPath(file.RelPath)
	if len(segments) == 0 {
		return newAppError(http.StatusBadRequest, CodeInvalidRequest, "empty file path", nil)
	}

	parent := dest
	for _, segment := range segments[:len(segments)-1] {
		folder, err := s.lifecycle.EnsureFolder(ctx, teamID, userID, parent, segment)
		if err != nil {
			return err
		}
		parent = folder
	}
	name := segments[len(segments)-1]

	check, err := s.quota.CheckAvailable(ctx, teamID, file.Size)
	if err != nil {
		return err
	}
	if !check.Allowed {
		return newAppErrorWithData(http.StatusRequestEntityTooLarge, CodeQuotaExceeded,
			"team storage quota exceeded", map[string]int64{"available_bytes": check.Available}, nil)
	}

	reader, err := file.Open()
	if err != nil {
		return newAppError(http.StatusBadRequest, CodeInvalidRequest, "open uploaded file failed", err)
	}
	defer reader.Close()

	if err := emit(ProgressEvent{Type: EventProgress, Path: file.RelPath, Progress: 0}); err != nil {
		return err
	}

	tracked := newProgressReader(reader, file.Size, config.AppConfig.Upload.ProgressChunkSize, func(pct int) error {
		return emit(ProgressEvent{Type: EventProgress, Path: file.RelPath, Progress: pct})
	})

	created, err := s.lifecycle.CreateFile(ctx, teamID, userID, parent, name, tracked, file.Size)
	if err != nil {
		if tracked.emitErr != nil {
			return tracked.emitErr
		}
		return err
	}

	if tracked.last < 100 {
		if err := emit(ProgressEvent{Type: EventProgress, Path: file.RelPath, Progress: 100}); err != nil {
			return err
		}
	}
	return emit(FileCompleteEvent{Type: EventFileComplete, Path: file.RelPath, EntityID: created.ID, Size: created.Size})
}

// progressReader emits strictly increasing percentages at chunk boundaries
// while the remote gateway drains it.
type progressReader struct {
	src      io.Reader
	total    int64
	read     int64
	chunk    int64
	nextMark int64
	last     int
	emit     func(pct int) error
	emitErr  error
}

func newProgressReader(src io.Reader, total int64, chunk int64, emit func(pct int) error) *progressReader {
	if chunk <= 0 {
		chunk = 1 << 20
	}
	return &progressReader{src: src, total: total, chunk: chunk, nextMark: chunk, emit: emit}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.src.Read(b)
	p.read += int64(n)

	if p.emitErr == nil && p.total > 0 && p.read >= p.nextMark {
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.last {
			if emitErr := p.emit(pct); emitErr != nil {
				p.emitErr = emitErr
				return n, emitErr
			}
			p.last = pct
		}
		for p.nextMark <= p.read {
			p.nextMark += p.chunk
		}
	}
	return n, err
}
