package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestGetTypeFollowsWrapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", Validationf("arms must be >= %d", 2), ErrorTypeValidation},
		{"wrapped validation", fmt.Errorf("commit: %w", Validationf("bad")), ErrorTypeValidation},
		{"not found", NotFoundf("preset %q", "x"), ErrorTypeNotFound},
		{"external", WrapExternal("dialog failed", errors.New("boom")), ErrorTypeExternal},
		{"method", MethodNotAllowed("PUT"), ErrorTypeMethodNotAllowed},
		{"plain", errors.New("plain"), ErrorTypeInternal},
	}
	for _, tc := range cases {
		if got := GetType(tc.err); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestAppErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapInternal("write export", cause)
	if err.Error() != "write export: disk full" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("AppError must unwrap to its cause")
	}
	if !IsValidation(WrapValidation("invalid", cause)) {
		t.Fatal("expected validation error")
	}
}
