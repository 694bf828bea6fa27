package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_GetRetriesOnThrottle(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id": "license"}`))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, 3, time.Millisecond, "")

	body, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if string(body) != `{"id": "license"}` {
		t.Errorf("Unexpected body: %s", body)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestClient_GetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, 3, time.Millisecond, "")

	if _, err := client.Get(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 attempt for non-retryable status, got %d", calls.Load())
	}
}

func TestClient_GetGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, 2, time.Millisecond, "")

	if _, err := client.Get(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts (initial plus 2 retries), got %d", calls.Load())
	}
}

func TestClient_AuthorizationHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, 0, time.Millisecond, "secret")

	if _, err := client.Get(context.Background(), server.URL); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if gotAuth != "token secret" {
		t.Errorf("Expected token auth header, got %q", gotAuth)
	}
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "license", "name": "License"}`))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, 0, time.Millisecond, "")

	record, err := client.GetJSON(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetJSON() unexpected error: %v", err)
	}
	if record["name"] != "License" {
		t.Errorf("Unexpected record: %v", record)
	}
}

func TestClient_GetJSONRejectsInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, 0, time.Millisecond, "")

	if _, err := client.GetJSON(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
}
