package model

import "errors"

var (
	// ErrPropertyNotFound indicates that the property does not exist or belongs to another team.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrInvalidStatus indicates a status outside the lifecycle enumeration.
	ErrInvalidStatus = errors.New("invalid property status")
	// ErrInvalidTransition indicates a status change out of Sold or Lost without a reopen.
	ErrInvalidTransition = errors.New("property is closed; reopen it before changing its status")
	// ErrInvalidImage indicates an uploaded file that is not an image.
	ErrInvalidImage = errors.New("uploaded file is not an image")
	// ErrStorageUploadFailed indicates that the image could not be stored.
	ErrStorageUploadFailed = errors.New("image upload failed")
)
