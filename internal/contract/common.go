// Package contract is the request and response surface the CLI uses to
// talk to services.
package contract

import "github.com/alexanderramin/cadence/internal/app"

type SkippedItem = app.SkippedItem

type ItemFailure = app.ItemFailure

type ErrorCode = app.ErrorCode

const (
	ErrNoItems      ErrorCode = app.ErrNoItems
	ErrInvalidInput ErrorCode = app.ErrInvalidInput
	ErrTracker      ErrorCode = app.ErrTracker
	ErrInternal     ErrorCode = app.ErrInternal
)

type UseCaseError = app.UseCaseError
