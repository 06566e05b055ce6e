package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResultFilename derives the extraction artifact name from the source
// document's filename.
func ResultFilename(sourceName string) string {
	return baseName(sourceName) + "_extracted.json"
}

// MarkdownFilename derives the converted content artifact name from the
// source document's filename.
func MarkdownFilename(sourceName string) string {
	return baseName(sourceName) + ".md"
}

// WriteJSON writes a successful extraction result as a pretty-printed
// JSON artifact named after the source document. Returns the written
// path.
func WriteJSON(dir, sourceName string, res Result) (string, error) {
	if !res.Success {
		return "", fmt.Errorf("cannot export a failed extraction: %s", res.Error)
	}

	var pretty bytes.Buffer
	if len(res.Data) > 0 && json.Valid(res.Data) {
		if err := json.Indent(&pretty, res.Data, "", "  "); err != nil {
			return "", fmt.Errorf("format extraction payload: %w", err)
		}
	} else {
		// Backend may return free-form textual content
		data, err := json.MarshalIndent(string(res.Data), "", "  ")
		if err != nil {
			return "", fmt.Errorf("format extraction payload: %w", err)
		}
		pretty.Write(data)
	}
	pretty.WriteByte('\n')

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, ResultFilename(sourceName))
	if err := os.WriteFile(path, pretty.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write extraction artifact: %w", err)
	}
	return path, nil
}

// WriteMarkdown writes a completed document's converted content as a
// markdown artifact. The content is written byte for byte as captured
// from the backend.
func WriteMarkdown(dir, sourceName, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, MarkdownFilename(sourceName))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown artifact: %w", err)
	}
	return path, nil
}

func baseName(sourceName string) string {
	name := filepath.Base(sourceName)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
