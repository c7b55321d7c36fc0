package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		folder, contentType string
		wantPrefix          string
		wantSuffix          string
	}{
		{folder: "posts", contentType: "image/png", wantPrefix: "posts/", wantSuffix: ".png"},
		{folder: "profile-pictures", contentType: "image/jpeg", wantPrefix: "profile-pictures/", wantSuffix: ".jpeg"},
		{folder: "", contentType: "image/webp", wantPrefix: "uploads/", wantSuffix: ".webp"},
		{folder: "posts", contentType: "", wantPrefix: "posts/", wantSuffix: ".jpg"},
	}

	for _, tt := range tests {
		key := ObjectKey(tt.folder, tt.contentType)
		if !strings.HasPrefix(key, tt.wantPrefix) || !strings.HasSuffix(key, tt.wantSuffix) {
			t.Errorf("ObjectKey(%q, %q) = %q", tt.folder, tt.contentType, key)
		}
	}

	if ObjectKey("posts", "image/png") == ObjectKey("posts", "image/png") {
		t.Error("ObjectKey() returned the same key twice")
	}
}

func TestKeyFromURL(t *testing.T) {
	const base = "https://cdn.example.com"

	tests := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{name: "own object", url: base + "/posts/abc.png", wantKey: "posts/abc.png", wantOK: true},
		{name: "empty", url: "", wantOK: false},
		{name: "foreign host", url: "https://other.example.com/posts/abc.png", wantOK: false},
		{name: "prefix lookalike", url: base + ".evil.com/posts/abc.png", wantOK: false},
		{name: "bare base", url: base + "/", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := KeyFromURL(base, tt.url)
			if ok != tt.wantOK || key != tt.wantKey {
				t.Errorf("KeyFromURL() = %q, %v; want %q, %v", key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{name: "explicit", cfg: S3Config{PublicURL: "https://cdn.example.com/", Bucket: "b"}, want: "https://cdn.example.com"},
		{name: "custom endpoint", cfg: S3Config{Endpoint: "http://minio:9000", Bucket: "media"}, want: "http://minio:9000/media"},
		{name: "aws", cfg: S3Config{Bucket: "media", Region: "eu-west-1"}, want: "https://media.s3.eu-west-1.amazonaws.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := publicBaseURL(tt.cfg); got != tt.want {
				t.Errorf("publicBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisabled(t *testing.T) {
	var s Storage = Disabled{}

	_, err := s.Put(context.Background(), []byte("x"), "image/png", "posts")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Put() error = %v, want ErrNotConfigured", err)
	}
	if err := s.Delete(context.Background(), "https://cdn.example.com/posts/a.png"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}
