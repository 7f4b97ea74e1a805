package errors

import (
	stderrors "errors"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(ErrCodeInvalidObject, "unknown object: %s", "Accout")
	want := "INVALID_OBJECT: unknown object: Accout"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch describe")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got := err.Error(); got != "NETWORK_ERROR: failed to fetch describe: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := New(ErrCodeSessionExpired, "session expired")

	if !Is(err, ErrCodeSessionExpired) {
		t.Error("Is(err, ErrCodeSessionExpired) = false")
	}
	if Is(err, ErrCodeNotFound) {
		t.Error("Is(err, ErrCodeNotFound) = true")
	}
	if Is(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("Is(plain error, code) = true")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeSalesforceAPI, "boom")); got != ErrCodeSalesforceAPI {
		t.Errorf("GetCode() = %q, want SALESFORCE_API", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeUnauthorized, "not authenticated")
	if got := UserMessage(err); got != "not authenticated" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("raw")); got != "raw" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidInput, 400},
		{ErrCodeUnauthorized, 401},
		{ErrCodeSessionExpired, 401},
		{ErrCodeForbidden, 403},
		{ErrCodeInvalidObject, 404},
		{ErrCodeRateLimited, 429},
		{ErrCodeSalesforceAPI, 502},
		{ErrCodeInternal, 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(New(tt.code, "x")); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
	if got := HTTPStatus(stderrors.New("plain")); got != 500 {
		t.Errorf("HTTPStatus(plain) = %d, want 500", got)
	}
}
