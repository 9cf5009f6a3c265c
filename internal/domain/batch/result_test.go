package batch

import (
	"errors"
	"testing"
)

func TestNewOK(t *testing.T) {
	r := NewOK(2, "Alex")
	if r.Index() != 2 || r.Name() != "Alex" {
		t.Errorf("unexpected result %+v", r)
	}
	if r.Status() != StatusOK {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusOK)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestNewError(t *testing.T) {
	err := errors.New("something failed")
	r := NewError(0, "", err)
	if r.Index() != 0 || r.Name() != "" {
		t.Errorf("unexpected result %+v", r)
	}
	if r.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", r.Status(), StatusError)
	}
	if !errors.Is(r.Err(), err) {
		t.Errorf("Err() = %v, want %v", r.Err(), err)
	}
}

func TestCount(t *testing.T) {
	results := []Result{
		NewOK(0, "a"),
		NewError(1, "b", errors.New("x")),
		NewOK(2, "c"),
	}
	ok, failed := Count(results)
	if ok != 2 || failed != 1 {
		t.Errorf("Count() = %d, %d; want 2, 1", ok, failed)
	}
	if ok, failed := Count(nil); ok != 0 || failed != 0 {
		t.Errorf("Count(nil) = %d, %d", ok, failed)
	}
}
