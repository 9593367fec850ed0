package errs

import (
	"errors"
	"testing"
)

var errBase = errors.New("base")

func TestWrapPreservesChain(t *testing.T) {
	err := Wrapf(Wrap(errBase, "inner"), "outer %s", "job-1")
	if !errors.Is(err, errBase) {
		t.Fatalf("errors.Is() = false for %v", err)
	}
	if got := err.Error(); got != "outer job-1: inner: base" {
		t.Fatalf("Error() = %q", got)
	}
	if Wrap(nil, "x") != nil || Wrapf(nil, "x") != nil {
		t.Fatalf("Wrap(nil) should stay nil")
	}

	chain := ErrorChainStrings(err)
	if len(chain) != 3 || chain[2] != "base" {
		t.Fatalf("ErrorChainStrings() = %v", chain)
	}
}

func TestRetryableSurvivesWrapping(t *testing.T) {
	if IsRetryable(errBase) {
		t.Fatalf("IsRetryable(plain) = true")
	}

	err := Wrap(Retryable(errBase), "claim job")
	if !IsRetryable(err) {
		t.Fatalf("IsRetryable(wrapped) = false")
	}
	if !errors.Is(err, errBase) {
		t.Fatalf("Retryable() broke the error chain")
	}
	if Retryable(nil) != nil {
		t.Fatalf("Retryable(nil) should stay nil")
	}
}

func TestWithStackCapturesOnce(t *testing.T) {
	first := WithStack(errBase)
	second := WithStack(Wrap(first, "again"))

	var se *StackError
	if !errors.As(second, &se) || len(se.Stack()) == 0 {
		t.Fatalf("WithStack() did not keep a stack")
	}
	if !errors.Is(second, errBase) {
		t.Fatalf("WithStack() broke the error chain")
	}
}
