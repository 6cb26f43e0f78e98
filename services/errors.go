package services

import (
	"errors"
	"fmt"
	"net/http"

	"spherify/storage"
)

// Machine-readable error codes carried alongside the HTTP status.
const (
	CodeInvalidRequest    = "invalid_request"
	CodeNotFound          = "not_found"
	CodeDuplicateName     = "duplicate_name"
	CodeNameConflict      = "name_conflict"
	CodeCyclicMove        = "cyclic_move"
	CodeQuotaExceeded     = "quota_exceeded"
	CodeRemoteUnavailable = "remote_unavailable"
	CodeRemoteDivergence  = "remote_divergence"
	CodeInternal          = "internal"
)

type AppError struct {
	HTTPCode int
	Code     string
	Message  string
	Data     interface{}
	Err      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newAppError(httpCode int, code string, message string, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Code: code, Message: message, Err: err}
}

func newAppErrorWithData(httpCode int, code string, message string, data interface{}, err error) *AppError {
	return &AppError{HTTPCode: httpCode, Code: code, Message: message, Data: data, Err: err}
}

// remoteAppError translates gateway sentinels. A missing remote object where
// one was expected is divergence, reported distinctly from a plain 404.
func remoteAppError(err error, message string) *AppError {
	if errors.Is(err, storage.ErrRemoteNotFound) {
		return newAppError(http.StatusBadGateway, CodeRemoteDivergence, message+": remote object missing", err)
	}
	if errors.Is(err, storage.ErrRemoteUnavailable) {
		return newAppError(http.StatusServiceUnavailable, CodeRemoteUnavailable, message+": remote storage unavailable", err)
	}
	return newAppError(http.StatusInternalServerError, CodeInternal, message, err)
}
