package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapValidationError(t *testing.T) {
	tests := []struct {
		name               string
		field              string
		cause              error
		expectedPublicMsg  string
		shouldContainInMsg []string
	}{
		{
			name:              "with cause error",
			field:             "password",
			cause:             errors.New("password must be at least 8 characters"),
			expectedPublicMsg: "validation failed for password: password must be at least 8 characters",
			shouldContainInMsg: []string{
				"VALIDATION_FAILED",
				"validation failed for password",
				"at least 8 characters",
			},
		},
		{
			name:              "with nil cause",
			field:             "username",
			cause:             nil,
			expectedPublicMsg: "validation failed for username",
			shouldContainInMsg: []string{
				"validation failed for username",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapValidationError(tt.field, tt.cause)

			if !IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}

			var domainErr *DomainError
			if !errors.As(err, &domainErr) {
				t.Fatalf("expected *DomainError, got %T", err)
			}
			if got := domainErr.PublicMessage(); got != tt.expectedPublicMsg {
				t.Errorf("PublicMessage() = %q, want %q", got, tt.expectedPublicMsg)
			}
			for _, want := range tt.shouldContainInMsg {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Error() = %q, should contain %q", err.Error(), want)
				}
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Error("expected wrapped error to unwrap to its cause")
			}
		})
	}
}

func TestErrorCheckers(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        error
		notFound   bool
		conflict   bool
		creds      bool
		validation bool
		infra      bool
	}{
		{"user not found", WrapUserNotFound("alice", cause), true, false, false, false, false},
		{"user exists", WrapUserAlreadyExists("alice", nil), false, true, false, false, false},
		{"credentials", ErrInvalidCredentials, false, false, true, false, false},
		{"required field", ErrRequiredFieldMissing, false, false, false, true, false},
		{"database", WrapDatabaseOperation("insert user", cause), false, false, false, false, true},
		{"wrapped with fmt", fmt.Errorf("signup: %w", ErrInvalidCredentials), false, false, true, false, false},
		{"plain error", cause, false, false, false, false, false},
		{"nil", nil, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.notFound {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.notFound)
			}
			if got := IsConflictError(tt.err); got != tt.conflict {
				t.Errorf("IsConflictError() = %v, want %v", got, tt.conflict)
			}
			if got := IsCredentialsError(tt.err); got != tt.creds {
				t.Errorf("IsCredentialsError() = %v, want %v", got, tt.creds)
			}
			if got := IsValidationError(tt.err); got != tt.validation {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.validation)
			}
			if got := IsInfrastructureError(tt.err); got != tt.infra {
				t.Errorf("IsInfrastructureError() = %v, want %v", got, tt.infra)
			}
		})
	}
}
