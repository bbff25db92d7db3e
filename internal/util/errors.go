package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrResetTokenInvalid  = errors.New("reset token invalid or expired")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskKindMismatch   = errors.New("task is not marked with the requested kind")
	ErrAlreadySubmitted   = errors.New("task already submitted")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrContentNotFound    = errors.New("content not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrRenderFailed       = errors.New("report rendering failed")
	ErrBadAttachmentRef   = errors.New("attachment reference cannot be resolved to a blob key")
)
