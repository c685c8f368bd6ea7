// Package model defines the core memory data types.
package model

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// IDPrefix is the prefix of every memory base name.
const IDPrefix = "memory-"

// Artifact is one of the files that make up a memory on disk.
type Artifact int

const (
	Image Artifact = iota
	Thumbnail
	Audio
	Transcript
)

// Artifacts lists every artifact kind in suffix-table order.
var Artifacts = []Artifact{Image, Thumbnail, Audio, Transcript}

var suffixes = [...]string{
	Image:      ".jpg",
	Thumbnail:  ".thumb",
	Audio:      ".m4a",
	Transcript: ".txt",
}

var artifactNames = [...]string{
	Image:      "image",
	Thumbnail:  "thumbnail",
	Audio:      "audio",
	Transcript: "transcript",
}

// Suffix returns the file suffix for the artifact, including the dot.
func (a Artifact) Suffix() string { return suffixes[a] }

func (a Artifact) String() string { return artifactNames[a] }

// ID is the base name shared by all artifacts of one memory.
type ID string

// NewID derives a base name from a capture time.
func NewID(t time.Time) ID {
	return ID(IDPrefix + strconv.FormatInt(t.Unix(), 10))
}

// ParseID validates s as a memory base name.
func ParseID(s string) (ID, error) {
	switch {
	case s == "":
		return "", fmt.Errorf("invalid memory id (empty)")
	case strings.ContainsAny(s, `/\`):
		return "", fmt.Errorf("invalid memory id %q (contains path separator)", s)
	case strings.HasPrefix(s, "."):
		return "", fmt.Errorf("invalid memory id %q (leading dot)", s)
	}
	for _, a := range Artifacts {
		if strings.HasSuffix(s, a.Suffix()) {
			return "", fmt.Errorf("invalid memory id %q (has %s suffix)", s, a)
		}
	}
	return ID(s), nil
}

// IDFromFilename recovers the base name from an artifact file name.
// It returns false if name does not carry the artifact's suffix.
func IDFromFilename(name string, a Artifact) (ID, bool) {
	base, ok := strings.CutSuffix(name, a.Suffix())
	if !ok || base == "" || strings.HasPrefix(base, ".") {
		return "", false
	}
	return ID(base), true
}

// Path returns the path of artifact a for this memory inside dir.
func (id ID) Path(dir string, a Artifact) string {
	return filepath.Join(dir, string(id)+a.Suffix())
}

// CreatedAt parses the capture time out of a timestamp-derived ID.
// Returns the zero time for IDs that do not follow the convention.
func (id ID) CreatedAt() time.Time {
	rest, ok := strings.CutPrefix(string(id), IDPrefix)
	if !ok {
		return time.Time{}
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		rest = rest[:i]
	}
	secs, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

// Memory is a projection of a base path onto its artifact paths.
// It holds no data itself.
type Memory struct {
	ID  ID     `json:"id"`
	Dir string `json:"-"`
}

// Base returns the extension-less path shared by all artifacts.
func (m Memory) Base() string { return filepath.Join(m.Dir, string(m.ID)) }

func (m Memory) ImagePath() string      { return m.ID.Path(m.Dir, Image) }
func (m Memory) ThumbPath() string      { return m.ID.Path(m.Dir, Thumbnail) }
func (m Memory) AudioPath() string      { return m.ID.Path(m.Dir, Audio) }
func (m Memory) TranscriptPath() string { return m.ID.Path(m.Dir, Transcript) }

// State is the artifact completeness of a memory.
type State string

const (
	StateCreated     State = "created"
	StateRecorded    State = "recorded"
	StateTranscribed State = "transcribed"
)

// Info describes a memory as observed on disk.
type Info struct {
	ID         ID               `json:"id"`
	Path       string           `json:"path"`
	State      State            `json:"state"`
	CreatedAt  time.Time        `json:"created_at"`
	Sizes      map[string]int64 `json:"sizes"`
	Transcript string           `json:"transcript,omitempty"`
}
