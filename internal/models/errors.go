package models

import "fmt"

// UpstreamError is a failure talking to the Chess.com API: transport errors,
// non-2xx responses and undecodable bodies.
type UpstreamError struct {
	Message string
	// Status is the HTTP-like status reported to callers.
	Status int
	Cause  error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// NotFoundError means no local record exists for the given key.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

// DeliveryError is a failed mail send to a single recipient.
type DeliveryError struct {
	Email string
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver to %s: %v", e.Email, e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}

// ValidationError is missing or malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
