package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchSuccessReadsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	res, err := Fetch(context.Background(), srv.URL+"/cms-hpt.csv")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer res.Body.Close()

	if res.Filename != "cms-hpt.csv" {
		t.Errorf("Filename = %q", res.Filename)
	}
}

func TestFetchForbiddenReturnsErrForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 403")
	}
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden in chain, got %v", err)
	}
}

func TestFetchServerErrorIsNotForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("500 must not be classified as ErrForbidden")
	}
}

func TestFilenameFromContentDisposition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="report_2024.csv"`)
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	res, err := Fetch(context.Background(), srv.URL+"/ignored-path")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer res.Body.Close()
	if res.Filename != "report_2024.csv" {
		t.Errorf("Filename = %q, want report_2024.csv", res.Filename)
	}
}
