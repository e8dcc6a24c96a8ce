package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeNotFound, "calendar not found")
	if !stderrors.Is(err, New(CodeNotFound, "different message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeUnauthorized, "calendar not found")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk io failure")
	err := Wrap(CodeCalendarUpdateFailed, "save calendar", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found in chain")
	}
	if err.Error() != "save calendar" {
		t.Fatalf("message = %q, want internal message", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeInvalidFormat, "bad payload"))
	if got := CodeOf(err); got != CodeInvalidFormat {
		t.Fatalf("code = %q, want %q", got, CodeInvalidFormat)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %q, want %q", got, CodeUnknown)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:             http.StatusNotFound,
		CodeMissingParameters:    http.StatusBadRequest,
		CodeInvalidFormat:        http.StatusBadRequest,
		CodeInvalidUser:          http.StatusBadRequest,
		CodeUnauthorized:         http.StatusUnauthorized,
		CodeCalendarCreateFailed: http.StatusInternalServerError,
		CodeExternalDeleteFailed: http.StatusInternalServerError,
		CodeUnknown:              http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("%s status = %d, want %d", code, got, want)
		}
	}
}
