package model

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	id := NewID(time.Unix(1000, 0))
	if id != "memory-1000" {
		t.Fatalf("expected memory-1000, got %s", id)
	}
	if got := id.CreatedAt(); !got.Equal(time.Unix(1000, 0)) {
		t.Errorf("CreatedAt = %v", got)
	}
}

func TestPaths(t *testing.T) {
	m := Memory{ID: "memory-1000", Dir: "/data"}
	cases := map[string]string{
		m.ImagePath():      filepath.Join("/data", "memory-1000.jpg"),
		m.ThumbPath():      filepath.Join("/data", "memory-1000.thumb"),
		m.AudioPath():      filepath.Join("/data", "memory-1000.m4a"),
		m.TranscriptPath(): filepath.Join("/data", "memory-1000.txt"),
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	}
	if m.Base() != filepath.Join("/data", "memory-1000") {
		t.Errorf("unexpected base %s", m.Base())
	}
}

func TestIDFromFilename(t *testing.T) {
	tests := []struct {
		name string
		a    Artifact
		want ID
		ok   bool
	}{
		{"memory-1000.thumb", Thumbnail, "memory-1000", true},
		{"memory-1000.jpg", Thumbnail, "", false},
		{".thumb", Thumbnail, "", false},
		{".memory-1000.thumb.tmp", Thumbnail, "", false},
		{"memory-1000-2.txt", Transcript, "memory-1000-2", true},
	}
	for _, tt := range tests {
		got, ok := IDFromFilename(tt.name, tt.a)
		if ok != tt.ok || got != tt.want {
			t.Errorf("IDFromFilename(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"memory-1000", true},
		{"memory-1000-1", true},
		{"", false},
		{"../etc", false},
		{".hidden", false},
		{"memory-1000.thumb", false},
	}
	for _, tt := range tests {
		_, err := ParseID(tt.input)
		if tt.ok && err != nil {
			t.Errorf("ParseID(%q) unexpected error: %v", tt.input, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseID(%q) expected error", tt.input)
		}
	}
}

func TestCreatedAt_Suffixed(t *testing.T) {
	if got := ID("memory-1000-3").CreatedAt(); got.Unix() != 1000 {
		t.Errorf("expected 1000, got %d", got.Unix())
	}
	if got := ID("custom").CreatedAt(); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
