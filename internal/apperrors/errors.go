package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidCredentials indicates that a password check failed for an existing user.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthorized indicates a missing, invalid, expired or rotated-out token.
// All token verification failures collapse to this error so the response
// never reveals which check failed.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated user may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrUploadFailed indicates that an upload to remote object storage did not succeed.
var ErrUploadFailed = errors.New("upload to remote storage failed")
