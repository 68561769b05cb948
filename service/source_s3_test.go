package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnTengye/casebrief/config"
)

func TestS3SourceOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/briefs/opinions.csv" {
			t.Errorf("Expected path-style object path, got %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("Expected signed request")
		}
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, sampleCSV)
	}))
	defer server.Close()

	src, err := NewS3Source(context.Background(), &config.S3Config{
		Bucket:    "briefs",
		Key:       "opinions.csv",
		Region:    "us-east-1",
		Endpoint:  server.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	if err != nil {
		t.Fatalf("NewS3Source failed: %v", err)
	}

	if got := readAll(t, src); got != sampleCSV {
		t.Errorf("Expected object body, got %q", got)
	}
	if src.Location() != "s3://briefs/opinions.csv" {
		t.Errorf("Unexpected location: %s", src.Location())
	}
}

func TestS3SourceMissingObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
	}))
	defer server.Close()

	src, err := NewS3Source(context.Background(), &config.S3Config{
		Bucket:    "briefs",
		Key:       "absent.csv",
		Region:    "us-east-1",
		Endpoint:  server.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	if err != nil {
		t.Fatalf("NewS3Source failed: %v", err)
	}

	if _, err := src.Open(context.Background()); err == nil {
		t.Error("Expected error for missing object")
	}
}
