// Package markup generates image fragments and splices them into the gallery
// page. Insertion is byte-level and purely additive: everything outside the
// inserted block is preserved byte-for-byte.
package markup

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path"
	"regexp"
)

// ErrContainerNotFound is returned when the designated container element
// cannot be located in the target HTML file, which signals a template
// mismatch.
var ErrContainerNotFound = errors.New("container element not found")

// Fragment describes one generated photo reference.
type Fragment struct {
	Src     string // URL path of the published image
	WebPSrc string // URL path of the WebP companion; empty disables <picture>
	Alt     string
}

// Render produces the HTML snippet for a fragment. The plain shape is a
// single lazy-loading <img>; when a WebP companion exists the img is wrapped
// in a <picture> with a WebP source, still exactly one <img> per photo.
func Render(f Fragment) string {
	img := fmt.Sprintf(`<img src="%s" alt="%s" loading="lazy">`,
		html.EscapeString(f.Src), html.EscapeString(f.Alt))
	if f.WebPSrc == "" {
		return img
	}
	return fmt.Sprintf(`<picture><source type="image/webp" srcset="%s">%s</picture>`,
		html.EscapeString(f.WebPSrc), img)
}

// containerRe builds a regex matching the opening tag of an element whose
// class attribute contains the given class name as a whole word.
func containerRe(class string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`(?is)<([a-zA-Z][a-zA-Z0-9-]*)\b[^>]*\bclass\s*=\s*"[^"]*\b%s\b[^"]*"[^>]*>`,
		regexp.QuoteMeta(class)))
}

// imgSrcRe matches the src attribute of <img> tags.
var imgSrcRe = regexp.MustCompile(`(?is)<img\b[^>]*\bsrc\s*=\s*"([^"]*)"`)

// Insert splices the rendered fragments, in the order given, as one
// contiguous block immediately after the opening tag of the first element
// carrying the container class. The rest of the document is untouched.
// Returns ErrContainerNotFound if no such element exists.
func Insert(doc []byte, class string, fragments []string) ([]byte, error) {
	loc := containerRe(class).FindIndex(doc)
	if loc == nil {
		return nil, fmt.Errorf("%w: class %q", ErrContainerNotFound, class)
	}

	var block []byte
	for _, f := range fragments {
		block = append(block, "\n  "...)
		block = append(block, f...)
	}

	insertAt := loc[1]
	result := make([]byte, 0, len(doc)+len(block))
	result = append(result, doc[:insertAt]...)
	result = append(result, block...)
	result = append(result, doc[insertAt:]...)
	return result, nil
}

// ImageSources returns the basenames of every <img> src in the document.
// The pipeline uses this to skip photos that are already referenced, making
// markup synchronization idempotent.
func ImageSources(doc []byte) map[string]bool {
	sources := make(map[string]bool)
	for _, m := range imgSrcRe.FindAllSubmatch(doc, -1) {
		src := string(m[1])
		if src == "" {
			continue
		}
		sources[path.Base(src)] = true
	}
	return sources
}

// CountImages returns the number of <img> tags in the document.
func CountImages(doc []byte) int {
	return len(imgSrcRe.FindAllIndex(doc, -1))
}

// SyncFile reads the HTML file at htmlPath, inserts the fragments after the
// container's opening tag, and writes the file back. Nothing is written when
// insertion fails, so a template mismatch never corrupts the page.
func SyncFile(htmlPath, class string, fragments []string) error {
	doc, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", htmlPath, err)
	}

	updated, err := Insert(doc, class, fragments)
	if err != nil {
		return err
	}

	if err := os.WriteFile(htmlPath, updated, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", htmlPath, err)
	}
	return nil
}
