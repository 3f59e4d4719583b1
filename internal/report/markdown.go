package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vsupload/internal/upload"
)

// Summary captures one upload run for the report.
type Summary struct {
	Roots      []string
	StartedAt  time.Time
	FinishedAt time.Time
	// Files is the expanded list that was handed to the uploader.
	Files  []string
	Result *upload.Result
	Err    error
}

// serializableSummary is the JSON form; errors are flattened to strings.
type serializableSummary struct {
	Roots        []string              `json:"roots"`
	StartedAt    time.Time             `json:"startedAt"`
	FinishedAt   time.Time             `json:"finishedAt"`
	FileCount    int                   `json:"fileCount"`
	CollectionID string                `json:"collectionId,omitempty"`
	Created      bool                  `json:"created"`
	Uploaded     []upload.UploadedFile `json:"uploaded"`
	Error        string                `json:"error,omitempty"`
}

// WriteMarkdown writes a Markdown report to path. If path is empty, it
// derives a safe filename from the first root.
func WriteMarkdown(path string, s Summary) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultName(s.Roots, ".md")
	}

	var buf bytes.Buffer
	buf.WriteString("## Vector Store Upload Report\n\n")
	buf.WriteString(fmt.Sprintf("- **Roots**: %s\n", escapeMD(strings.Join(s.Roots, ", "))))
	buf.WriteString(fmt.Sprintf("- **Started**: %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST")))
	buf.WriteString(fmt.Sprintf("- **Finished**: %s\n", s.FinishedAt.Format("2006-01-02 15:04:05 MST")))
	buf.WriteString(fmt.Sprintf("- **Files**: %d\n", len(s.Files)))
	if s.Result != nil {
		state := "reused"
		if s.Result.Created {
			state = "created"
		}
		buf.WriteString(fmt.Sprintf("- **Vector Store**: `%s` (%s)\n", escapeMD(s.Result.CollectionID), state))
	}
	if s.Err != nil {
		buf.WriteString(fmt.Sprintf("- **Error**: %s\n", escapeMD(s.Err.Error())))
	}
	buf.WriteString("\n")

	if s.Result != nil && len(s.Result.Files) > 0 {
		buf.WriteString("### Uploaded files\n\n")
		buf.WriteString("| File | Handle |\n|---|---|\n")
		for _, f := range s.Result.Files {
			buf.WriteString(fmt.Sprintf("| [%s](%s) | `%s` |\n", escapeMD(displayPath(f.Path, s.Roots)), escapeLinkPath(filepath.ToSlash(f.Path)), escapeMD(f.Handle)))
		}
		buf.WriteString("\n")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSON writes the summary as indented JSON. If path is empty, it
// derives a safe filename from the first root.
func WriteJSON(path string, s Summary) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultName(s.Roots, ".json")
	}
	out := serializableSummary{
		Roots:      s.Roots,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		FileCount:  len(s.Files),
		Uploaded:   []upload.UploadedFile{},
	}
	if s.Result != nil {
		out.CollectionID = s.Result.CollectionID
		out.Created = s.Result.Created
		out.Uploaded = s.Result.Files
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func defaultName(roots []string, ext string) string {
	base := ""
	if len(roots) > 0 {
		base = filepath.Base(roots[0])
	}
	if strings.TrimSpace(base) == "" || base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + ext
}

// displayPath shortens p relative to the first root that contains it.
func displayPath(p string, roots []string) string {
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return filepath.Base(p)
}

func escapeMD(s string) string {
	return html.EscapeString(s)
}

// escapeLinkPath escapes a path for inclusion in a Markdown link URL.
func escapeLinkPath(p string) string {
	p = strings.ReplaceAll(p, " ", "%20")
	p = strings.ReplaceAll(p, "(", "%28")
	p = strings.ReplaceAll(p, ")", "%29")
	return p
}
