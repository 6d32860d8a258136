package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
	}{
		{KindMissingCredential, http.StatusUnauthorized},
		{KindAuthentication, http.StatusUnauthorized},
		{KindUnsupportedFormat, http.StatusUnsupportedMediaType},
		{KindStaging, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
		{KindTransientBackend, http.StatusServiceUnavailable},
		{KindUnknownBackend, http.StatusBadGateway},
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindUnknown, http.StatusBadRequest},
	}

	for _, tc := range cases {
		err := New(tc.kind, "boom")
		if got := err.HTTPStatus(); got != tc.status {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.kind, got, tc.status)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{KindMissingCredential, "missing_credential"},
		{KindUnsupportedFormat, "unsupported_format"},
		{KindStaging, "staging"},
		{KindAuthentication, "authentication"},
		{KindTransientBackend, "transient_backend"},
		{KindUnknownBackend, "unknown_backend"},
		{KindValidation, "validation"},
		{KindInternal, "internal"},
		{KindUnknown, "unknown"},
	}

	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindStaging, "failed to write staged media", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	if GetKind(err) != KindStaging {
		t.Errorf("GetKind() = %v, want KindStaging", GetKind(err))
	}
}

func TestGetKindOnForeignError(t *testing.T) {
	if got := GetKind(errors.New("plain")); got != KindUnknown {
		t.Errorf("GetKind(plain error) = %v, want KindUnknown", got)
	}
	if Is(errors.New("plain"), KindStaging) {
		t.Error("Is() matched a plain error")
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := Staging("write failed").WithOp("stager.Stage")
	if err.Error() != "stager.Stage: write failed" {
		t.Errorf("Error() = %q", err.Error())
	}
}
