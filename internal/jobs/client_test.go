package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetDetailUnwrapsSingleEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/public/jobs/7" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":7,"companyName":"Acme","title":"백엔드 엔지니어","jobForm":"재택근무","closeYn":"N"}}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, time.Second)
	detail, err := client.GetDetail(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.ID != 7 || detail.CompanyName != "Acme" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.WorkType != "재택근무" {
		t.Fatalf("expected jobForm mapped to WorkType, got %q", detail.WorkType)
	}
	if detail.Closed() {
		t.Fatalf("expected open posting")
	}
}

func TestGetDetailUnwrapsDoubleEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"id":7,"title":"백엔드 엔지니어","closeYn":"Y"}}}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, time.Second)
	detail, err := client.GetDetail(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.Title != "백엔드 엔지니어" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if !detail.Closed() {
		t.Fatalf("expected closed posting")
	}
}

func TestGetDetailNullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":null}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, time.Second)
	detail, err := client.GetDetail(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.ID != 0 || detail.Title != "" {
		t.Fatalf("expected zero detail for null data, got %+v", detail)
	}
}

func TestGetDetailNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, time.Second)
	if _, err := client.GetDetail(context.Background(), 7); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGetDetailBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, time.Second)
	if _, err := client.GetDetail(context.Background(), 7); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGetDetailConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	if _, err := client.GetDetail(context.Background(), 7); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClosedFlagVariants(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"Y", true},
		{"y", true},
		{" Y ", true},
		{"N", false},
		{"", false},
	}
	for _, tc := range cases {
		d := Detail{ClosedYn: tc.raw}
		if d.Closed() != tc.want {
			t.Fatalf("ClosedYn %q: expected %v", tc.raw, tc.want)
		}
	}
}
