package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
}

func TestAppError_NotFound_Success(t *testing.T) {
	err := NotFound("first")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.Details["operation"] != "first" {
		t.Errorf("expected operation=first, got %v", err.Details["operation"])
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should match a NotFound error")
	}
	if IsAmbiguous(err) {
		t.Error("IsAmbiguous should not match a NotFound error")
	}
}

func TestAppError_Ambiguous_Success(t *testing.T) {
	err := Ambiguous("single")
	if err.Code != ErrCodeAmbiguous {
		t.Errorf("expected AMBIGUOUS_RESULT, got %s", err.Code)
	}
	if !stderrors.Is(err, ErrAmbiguous) {
		t.Error("expected errors.Is to match ErrAmbiguous")
	}
}

func TestAppError_OutOfBounds_Success(t *testing.T) {
	err := OutOfBounds(7)
	if err.Details["index"] != 7 {
		t.Errorf("expected index=7, got %v", err.Details["index"])
	}
	if !strings.Contains(err.Message, "7") {
		t.Errorf("expected message to mention the index, got %q", err.Message)
	}
	if !IsOutOfBounds(err) {
		t.Error("IsOutOfBounds should match")
	}
}

func TestAppError_InvalidArgument_Success(t *testing.T) {
	err := InvalidArgument("size", "size must be > 0 but is 0")
	if err.Code != ErrCodeInvalidArgument {
		t.Errorf("expected INVALID_ARGUMENT, got %s", err.Code)
	}
	if err.Details["field"] != "size" {
		t.Errorf("expected field=size, got %v", err.Details["field"])
	}
	if !IsInvalidArgument(err) {
		t.Error("IsInvalidArgument should match")
	}
}

func TestAppError_InvalidArgument_EmptyField(t *testing.T) {
	err := InvalidArgument("", "bad")
	if _, ok := err.Details["field"]; ok {
		t.Error("expected no 'field' key in details when field is empty")
	}
}

func TestAppError_Is_WrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("single: %w", Ambiguous("single"))
	if !stderrors.Is(wrapped, ErrAmbiguous) {
		t.Error("expected wrapped AppError to match its sentinel")
	}
	if stderrors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped ambiguous error should not match ErrNotFound")
	}
	if CodeOf(wrapped) != ErrCodeAmbiguous {
		t.Errorf("expected code AMBIGUOUS_RESULT, got %q", CodeOf(wrapped))
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NotFound("first").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("first").WithDetails(map[string]any{
		"extra": "info",
	})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["operation"] != "first" {
		t.Error("expected original details to be preserved")
	}

	err.WithDetails(map[string]any{
		"another": "detail",
	})
	if err.Details["another"] != "detail" {
		t.Error("expected another=detail to be merged")
	}
	if err.Details["extra"] != "info" {
		t.Error("expected extra=info to be preserved after second merge")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized")
	}
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	s := NotFound("first").Error()
	if !strings.Contains(s, "NOT_FOUND") {
		t.Errorf("expected error string to contain code, got %q", s)
	}
	if !strings.Contains(s, "No such element") {
		t.Errorf("expected error string to contain message, got %q", s)
	}
}

func TestAsAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"app error", InvalidConfig("bad"), true},
		{"wrapped app error", fmt.Errorf("ctx: %w", OutOfBounds(1)), true},
		{"plain error", stderrors.New("plain"), false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := AsAppError(tc.err)
			if ok != tc.want {
				t.Errorf("AsAppError(%v) = %v, want %v", tc.err, ok, tc.want)
			}
			if IsAppError(tc.err) != tc.want {
				t.Errorf("IsAppError(%v) = %v, want %v", tc.err, !tc.want, tc.want)
			}
		})
	}
}

func TestIsKnownCode(t *testing.T) {
	if !IsKnownCode(ErrCodeOutOfBounds) {
		t.Error("OUT_OF_BOUNDS should be known")
	}
	if IsKnownCode(ErrorCode("TIMEOUT")) {
		t.Error("TIMEOUT is not part of the taxonomy")
	}
}
