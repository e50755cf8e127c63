package screens

import (
	"context"
	"errors"
	"testing"
)

func TestScreenLoadSuccess(t *testing.T) {
	var s Screen[int]
	s.Load(context.Background(), func(context.Context) (int, error) { return 42, nil })

	data, status, err := s.Snapshot()
	if status != StatusReady || err != nil {
		t.Fatalf("snapshot = %v/%v, want ready", status, err)
	}
	if data != 42 {
		t.Fatalf("data = %d, want 42", data)
	}
}

func TestScreenLoadErrorThenRetry(t *testing.T) {
	var s Screen[string]
	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("boom")
		}
		return "recovered", nil
	}

	s.Load(context.Background(), fetch)
	if _, status, err := s.Snapshot(); status != StatusError || err == nil {
		t.Fatalf("after failure status = %v, err = %v, want error", status, err)
	}

	s.Retry(context.Background())
	data, status, err := s.Snapshot()
	if status != StatusReady || err != nil {
		t.Fatalf("after retry status = %v, err = %v, want ready", status, err)
	}
	if data != "recovered" {
		t.Fatalf("data = %q", data)
	}
}

func TestScreenDiscardsResultAfterCancel(t *testing.T) {
	var s Screen[int]
	s.Load(context.Background(), func(context.Context) (int, error) { return 1, nil })

	ctx, cancel := context.WithCancel(context.Background())
	s.Load(ctx, func(ctx context.Context) (int, error) {
		cancel()
		return 99, nil
	})

	data, status, _ := s.Snapshot()
	if data == 99 {
		t.Fatal("cancelled load result was applied")
	}
	if status != StatusLoading {
		t.Fatalf("status = %v, want loading after discarded result", status)
	}
}

func TestScreenRefreshKeepsDataOnFailure(t *testing.T) {
	var s Screen[int]
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		if calls > 1 {
			return 0, errors.New("transient")
		}
		return 7, nil
	}

	s.Load(context.Background(), fetch)
	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}

	data, status, err := s.Snapshot()
	if status != StatusReady || err != nil {
		t.Fatalf("status = %v, err = %v, want ready preserved", status, err)
	}
	if data != 7 {
		t.Fatalf("data = %d, want last good value", data)
	}
}
