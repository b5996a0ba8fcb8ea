package model

import "errors"

var (
	// ErrInquiryNotFound indicates that the inquiry does not exist.
	ErrInquiryNotFound = errors.New("inquiry not found")
	// ErrInvalidInquiryStatus indicates a status outside New, Contacted, Scheduled, Closed, Lost.
	ErrInvalidInquiryStatus = errors.New("invalid inquiry status")
)
