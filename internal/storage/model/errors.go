package model

import "errors"

var (
	// ErrObjectNotFound indicates that no object exists at the path.
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectExists indicates an upload without overwrite onto an existing path.
	ErrObjectExists = errors.New("object already exists")
	// ErrEmptyObject indicates an upload with no content.
	ErrEmptyObject = errors.New("object is empty")
	// ErrObjectTooLarge indicates an upload above the configured size limit.
	ErrObjectTooLarge = errors.New("object exceeds maximum size")
	// ErrInvalidPath indicates an empty or malformed object path.
	ErrInvalidPath = errors.New("invalid object path")
	// ErrInvalidSignature indicates a signed URL token that does not verify for the path.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrSignatureExpired indicates a signed URL past its expiry.
	ErrSignatureExpired = errors.New("signature expired")
)
