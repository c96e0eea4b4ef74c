package files

import "errors"

// ErrFileNotFound covers missing records and cross-tenant lookups.
var ErrFileNotFound = errors.New("file not found")

// ErrNoFile is returned when the multipart request has no file part.
var ErrNoFile = errors.New("no file provided")

// ErrFileTooLarge is returned when the upload exceeds the size cap.
var ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

// ErrUploadFile is returned when the upload pipeline fails.
var ErrUploadFile = errors.New("failed to upload file")

// ErrDeleteFile is returned when file deletion fails.
var ErrDeleteFile = errors.New("failed to delete file")

// ErrListFiles is returned when file listing fails.
var ErrListFiles = errors.New("failed to list files")

// ErrCreateFilesRepo is returned when files repository creation fails.
var ErrCreateFilesRepo = errors.New("failed to create files repository")
