package grpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "github.com/spec-kit/user-directory/pkg/util/errorutil"
)

func handleError(err error) error {
	switch {
	case apperrors.IsValidation(err):
		return status.Error(codes.InvalidArgument, describe(apperrors.ToDomainError(err)))
	case apperrors.IsNotFound(err):
		return status.Error(codes.NotFound, describe(apperrors.ToDomainError(err)))
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

// describe folds field-level details into the status message.
func describe(err *apperrors.DomainError) string {
	field, ok := err.Details["field"]
	if !ok {
		return err.Message
	}
	return fmt.Sprintf("%s: %v %v", err.Message, field, err.Details["reason"])
}
