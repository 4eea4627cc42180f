// Package scaffold creates new gallery sites with the directory layout and
// page template the publishing pipeline expects.
package scaffold

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
)

// Options tunes the generated site.
type Options struct {
	Title string // page title; defaults to the directory name
	About []byte // optional Markdown blurb rendered above the grid
}

// NewGallery creates a new gallery site at name: the input and output
// directories, a darkroom.yaml, and an index.html containing the photo-grid
// container. It returns an error if the directory already exists.
func NewGallery(name string, opts Options) error {
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("directory %q already exists", name)
	}

	for _, dir := range []string{
		filepath.Join(name, "incoming"),
		filepath.Join(name, "photos"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %q: %w", dir, err)
		}
	}

	title := opts.Title
	if title == "" {
		title = filepath.Base(name)
	}

	about, err := renderAbout(opts.About)
	if err != nil {
		return err
	}

	configContent := fmt.Sprintf(`title: %q
input: "incoming"
output: "photos"
html: "index.html"
container: "photo-grid"
order: "name"

images:
  maxWidth: 1500
  maxHeight: 2000
  quality: 85

git:
  remote: "origin"
  commitTemplate: "Add %%d new photos"
`, title)
	if err := os.WriteFile(filepath.Join(name, "darkroom.yaml"), []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("writing darkroom.yaml: %w", err)
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <style>
    body { margin: 0 auto; max-width: 72rem; padding: 1rem; font-family: sans-serif; }
    .photo-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(18rem, 1fr)); gap: 1rem; }
    .photo-grid img { width: 100%%; height: auto; display: block; }
  </style>
</head>
<body>
  <h1>%s</h1>
%s  <div class="photo-grid">
  </div>
</body>
</html>
`, html.EscapeString(title), html.EscapeString(title), about)
	if err := os.WriteFile(filepath.Join(name, "index.html"), []byte(page), 0o644); err != nil {
		return fmt.Errorf("writing index.html: %w", err)
	}

	return nil
}

// renderAbout converts the Markdown blurb to an HTML section. An empty blurb
// produces no section.
func renderAbout(about []byte) (string, error) {
	if len(bytes.TrimSpace(about)) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.New().Convert(about, &buf); err != nil {
		return "", fmt.Errorf("rendering about text: %w", err)
	}
	return fmt.Sprintf("  <section class=\"gallery-about\">\n%s  </section>\n", buf.String()), nil
}
