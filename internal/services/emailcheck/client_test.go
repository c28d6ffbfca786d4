package emailcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"prospector/internal/services"
)

func TestVerifySendsAddressAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("email") != "jane+x@example.com" {
			t.Errorf("unexpected email %q", r.URL.Query().Get("email"))
		}
		if r.Header.Get("x-rapidapi-key") != "mail-key" || r.Header.Get("x-rapidapi-host") != "mail.example" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		fmt.Fprint(w, `{"status":"accept_all"}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Host: "mail.example", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	result, err := client.Verify(context.Background(), "mail-key", "jane+x@example.com")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Confirmed() {
		t.Fatalf("expected accept_all to confirm, got %#v", result)
	}
}

func TestResultConfirmed(t *testing.T) {
	cases := map[string]bool{
		"valid":      true,
		"accept_all": true,
		"invalid":    false,
		"unknown":    false,
		"":           false,
	}
	for status, want := range cases {
		if got := (Result{Status: status}).Confirmed(); got != want {
			t.Fatalf("status %q: got %v want %v", status, got, want)
		}
	}
}

func TestVerifyClassifiesFailures(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusTooManyRequests, "", services.ErrRateLimited},
		{http.StatusUnauthorized, "nope", services.ErrUpstream},
		{http.StatusOK, "<html>", services.ErrDecode},
		{http.StatusOK, `{"message":"You are not subscribed to this API."}`, services.ErrDecode},
		{http.StatusOK, `{"status":"  "}`, services.ErrDecode},
		{http.StatusOK, `{"status":null}`, services.ErrDecode},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			fmt.Fprint(w, tc.body)
		}))
		client, err := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		_, err = client.Verify(context.Background(), "k", "a@b.c")
		server.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
	}
}
