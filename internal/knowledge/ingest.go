package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/emtquiz/internal/quiz"
)

// maxTopicFileSize caps ingested files; reference notes are a few KB.
const maxTopicFileSize = 1 << 20

// ReadTopicFile reads a plain-text reference file. The topic name is the
// file name without its extension.
func ReadTopicFile(path string) (name, content string, err error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md", "":
	default:
		return "", "", &quiz.ValidationError{Field: "file", Message: "Please upload a .txt or .md file."}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("stat topic file: %w", err)
	}
	if info.IsDir() {
		return "", "", &quiz.ValidationError{Field: "file", Message: fmt.Sprintf("%s is a directory.", path)}
	}
	if info.Size() > maxTopicFileSize {
		return "", "", &quiz.ValidationError{Field: "file", Message: "The file is too large (limit 1 MB)."}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read topic file: %w", err)
	}

	content = strings.TrimSpace(string(data))
	if content == "" {
		return "", "", &quiz.ValidationError{Field: "content", Message: "The file appears to be empty or could not be read."}
	}

	base := filepath.Base(path)
	name = strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	return name, content, nil
}
