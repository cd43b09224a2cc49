package internal

import (
	"os"
	"strings"
)

// SourceCode stores the content of a source file as lines.
type SourceCode struct {
	Lines []string
}

// NewSourceCode splits text into lines.
func NewSourceCode(text string) *SourceCode {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return &SourceCode{Lines: lines}
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(string(content)), nil
}
