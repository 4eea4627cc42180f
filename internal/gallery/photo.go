package gallery

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Photo describes one image moving through the pipeline. Records are
// ephemeral: they are computed fresh each run from directory contents, and
// the filenames plus the HTML file remain the only source of truth.
type Photo struct {
	SourcePath string    // path in the input directory
	Name       string    // NFC-normalized original filename
	Index      int       // display index; higher sorts first
	OutputName string    // "{index}_{name}"
	Alt        string    // alt text for the generated fragment
	TakenAt    time.Time // EXIF capture time; zero if unknown
	Width      int       // dimensions after processing
	Height     int
}

// NewPhoto builds a Photo for a file in inputDir. The filename is normalized
// to NFC so composed and decomposed spellings (e.g. "ñ") produce the same
// output name across filesystems.
func NewPhoto(inputDir, name string) Photo {
	normalized := norm.NFC.String(name)
	return Photo{
		SourcePath: filepath.Join(inputDir, name),
		Name:       normalized,
		Alt:        Stem(normalized),
	}
}

// Assign sets the photo's display index and derives its output filename.
func (p *Photo) Assign(index int) {
	p.Index = index
	p.OutputName = fmt.Sprintf("%d_%s", index, p.Name)
}

// WebPName returns the filename of the photo's WebP companion.
func (p *Photo) WebPName() string {
	return strings.TrimSuffix(p.OutputName, filepath.Ext(p.OutputName)) + ".webp"
}

// Stem returns the filename without its extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
