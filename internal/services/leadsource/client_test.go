package leadsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"prospector/internal/filter"
	"prospector/internal/services"
)

func TestFetchPageSendsFilterAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-rapidapi-key"); got != "key-1" {
			t.Errorf("expected api key header, got %q", got)
		}
		if got := r.Header.Get("x-rapidapi-host"); got != "leads.example" {
			t.Errorf("expected host header, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("personTitle") != "CTO" || q.Get("locations") != "Berlin" || q.Get("industry") != "Software" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("numEmployees") != "1,10;11,20" || q.Get("next") != "tok-1" {
			t.Errorf("unexpected size or cursor %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"next":"tok-2","total":2,"people":[
			{"id":"a","firstName":"Jane","lastName":"Doe","name":"Jane Doe","organizationWebsiteUrl":"https://example.com"},
			{"id":"b","firstName":"John","lastName":"Roe","name":"John Roe","city":""}]}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, Host: "leads.example", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	spec := filter.Spec{
		PersonTitle: "CTO", Location: "Berlin", Industry: "Software",
		Sizes: []filter.EmployeeSize{filter.Size11To20, filter.Size1To10},
	}
	page, err := client.FetchPage(context.Background(), "key-1", spec, "tok-1")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Next != "tok-2" || page.Total != 2 || len(page.People) != 2 {
		t.Fatalf("unexpected page %#v", page)
	}
	if page.People[0].OrganizationWebsiteURL != "https://example.com" || page.People[1].City != "" {
		t.Fatalf("unexpected people %#v", page.People)
	}
}

func TestFetchPageClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: "quota", want: services.ErrRateLimited},
		{name: "server error", status: http.StatusBadGateway, body: "oops", want: services.ErrUpstream},
		{name: "bad json", status: http.StatusOK, body: "{not json", want: services.ErrDecode},
		{name: "subscription notice", status: http.StatusOK, body: `{"message":"You are not subscribed to this API."}`, want: services.ErrDecode},
		{name: "null people", status: http.StatusOK, body: `{"next":"","total":0,"people":null}`, want: services.ErrDecode},
		{name: "missing next", status: http.StatusOK, body: `{"total":1,"people":[{"id":"a"}]}`, want: services.ErrDecode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			client, err := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = client.FetchPage(context.Background(), "k", filter.Spec{}, "")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFetchPageTransportFailureIsUpstream(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(Config{BaseURL: url})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.FetchPage(context.Background(), "k", filter.Spec{}, "")
	if !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
}

func TestPageRequestOmitsEmptyCursor(t *testing.T) {
	client, err := New(Config{BaseURL: "https://leads.example/api"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	req, err := client.PageRequest(context.Background(), "k", filter.Spec{PersonTitle: "CEO"}, "")
	if err != nil {
		t.Fatalf("PageRequest: %v", err)
	}
	if req.URL.Path != "/api/page" || req.URL.Query().Has("next") {
		t.Fatalf("unexpected request url %s", req.URL)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestFetchPageAcceptsEmptyLastPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"next":"","total":0,"people":[]}`)
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	page, err := client.FetchPage(context.Background(), "k", filter.Spec{PersonTitle: "CTO", Location: "Berlin", Industry: "Software"}, "")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Next != "" || len(page.People) != 0 {
		t.Fatalf("unexpected page %#v", page)
	}
}
