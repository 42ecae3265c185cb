package errcode

import (
	"errors"
	"testing"
)

func TestFatalClassifiesUsageAndPathErrors(t *testing.T) {
	cases := []struct {
		code Code
		want bool
	}{
		{UsageError, true},
		{PathError, true},
		{IoError, false},
		{ParseWarning, false},
		{InternalError, false},
	}
	for _, c := range cases {
		if got := c.code.Fatal(); got != c.want {
			t.Errorf("%s.Fatal() = %v, want %v", c.code, got, c.want)
		}
	}
}

func TestErrorFormatsWithFile(t *testing.T) {
	e := Wrap(IoError, "A.cpp", errors.New("permission denied"))
	want := "[IO_ERROR] A.cpp: permission denied"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(InternalError, "A.cpp", cause)
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}
