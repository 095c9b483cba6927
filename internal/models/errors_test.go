package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRequestErrorUserMessage(t *testing.T) {
	tests := []struct {
		kind RequestErrorKind
		hint string
	}{
		{kind: KindUnreachable, hint: "could not be reached"},
		{kind: KindTimeout, hint: "took too long"},
		{kind: KindStatus, hint: "reported an error"},
		{kind: KindRejected, hint: "reported an error"},
		{kind: KindMalformed, hint: "could not read"},
		{kind: KindCanceled, hint: ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			msg := (&RequestError{Kind: tt.kind, Err: errors.New("boom")}).UserMessage()
			if !strings.HasPrefix(msg, "Analysis failed. Please try again.") {
				t.Errorf("UserMessage() = %q, missing generic prefix", msg)
			}
			if !strings.Contains(msg, tt.hint) {
				t.Errorf("UserMessage() = %q, want hint %q", msg, tt.hint)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	inner := errors.New("connection refused")
	re := &RequestError{Kind: KindUnreachable, Err: inner}
	wrapped := fmt.Errorf("submit: %w", re)

	if !IsRequest(wrapped) {
		t.Error("IsRequest should see through wrapping")
	}
	if IsValidation(wrapped) {
		t.Error("IsValidation should be false for a RequestError")
	}
	if !errors.Is(wrapped, inner) {
		t.Error("RequestError should unwrap to its cause")
	}

	ve := fmt.Errorf("form: %w", &ValidationError{Field: "resume_text", Message: "required"})
	if !IsValidation(ve) || IsRequest(ve) {
		t.Error("ValidationError helpers disagree")
	}

	status := &RequestError{Kind: KindStatus, StatusCode: 503, Err: errors.New("unexpected status")}
	if !strings.Contains(status.Error(), "503") {
		t.Errorf("status error should mention the code: %q", status.Error())
	}
}
