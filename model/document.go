package model

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Document represents a source document whose mentions are resolved
type Document struct {
	ID        int64            `json:"id"`
	RID       uuid.UUID        `json:"rid"`
	Title     string           `json:"title"`
	Source    string           `json:"source,omitempty"`
	Content   string           `json:"content,omitempty" db:"-"`  // Temporary field for processing, not stored in DB
	Mentions  []MentionContext `json:"mentions,omitempty" db:"-"` // Mentions in document order, not stored with the document
	Metadata  Metadata         `json:"metadata,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewDocumentFromFile reads a file and creates a Document with the file content
// The title defaults to the filename, and source to the file path
func NewDocumentFromFile(filePath string, metadata Metadata) (*Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	return &Document{
		Title:    titleFromPath(filePath),
		Source:   filePath,
		Content:  string(content),
		Metadata: metadata,
	}, nil
}

// NewDocumentFromMentionsFile reads a JSON lines file with one MentionContext per line
func NewDocumentFromMentionsFile(filePath string, metadata Metadata) (*Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mentions, err := ReadMentions(f)
	if err != nil {
		return nil, fmt.Errorf("read mentions from %s: %w", filePath, err)
	}

	return &Document{
		Title:    titleFromPath(filePath),
		Source:   filePath,
		Mentions: mentions,
		Metadata: metadata,
	}, nil
}

// ReadMentions decodes JSON lines into mentions, skipping empty lines
func ReadMentions(r io.Reader) ([]MentionContext, error) {
	var mentions []MentionContext
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var m MentionContext
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		mentions = append(mentions, m)
	}

	return mentions, scanner.Err()
}

func titleFromPath(filePath string) string {
	filename := filepath.Base(filePath)
	title := filename[:len(filename)-len(filepath.Ext(filename))]
	if title == "" {
		title = filename
	}
	return title
}
