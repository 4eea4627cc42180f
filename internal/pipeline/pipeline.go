// Package pipeline wires the publishing stages together: scan the input
// directory, resize and rename photos into the output directory, and splice
// the matching fragments into the gallery page. Publishing to git happens
// afterwards in the command layer, behind the confirmation prompt.
package pipeline

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/aellingwood/darkroom/internal/config"
	"github.com/aellingwood/darkroom/internal/gallery"
	"github.com/aellingwood/darkroom/internal/image"
	"github.com/aellingwood/darkroom/internal/markup"
)

// Pipeline runs a single publishing pass over the configured directories.
type Pipeline struct {
	cfg     *config.Config
	verbose bool
}

// Result summarizes one pipeline run for the operator.
type Result struct {
	Photos      []gallery.Photo // processed photos, in index order
	Skipped     []string        // per-file failures, "name: reason"
	Inserted    int             // fragments added to the page
	TotalImages int             // image count in the page after sync
}

// New creates a Pipeline for the given configuration.
func New(cfg *config.Config, verbose bool) *Pipeline {
	return &Pipeline{cfg: cfg, verbose: verbose}
}

// Run executes one pass. Per-photo failures are reported and skipped; a
// missing input directory or a page without the container element aborts
// the run. Already-written output files are never rolled back.
func (p *Pipeline) Run() (*Result, error) {
	cfg := p.cfg
	result := &Result{}

	names, err := gallery.ScanInput(cfg.Input)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return result, nil
	}

	captions, err := gallery.LoadCaptions(cfg.Input)
	if err != nil {
		return nil, err
	}

	photos := make([]gallery.Photo, 0, len(names))
	for _, name := range names {
		photo := gallery.NewPhoto(cfg.Input, name)
		if alt, ok := captions[name]; ok {
			photo.Alt = alt
		}
		if cfg.Order == config.OrderByTaken {
			photo.TakenAt = gallery.CaptureTime(photo.SourcePath)
		}
		photos = append(photos, photo)
	}
	if cfg.Order == config.OrderByTaken {
		gallery.SortByTaken(photos)
	}

	next, err := gallery.NextIndex(cfg.Output)
	if err != nil {
		return nil, err
	}

	opts := image.Options{
		MaxWidth:  cfg.Images.MaxWidth,
		MaxHeight: cfg.Images.MaxHeight,
		Quality:   cfg.Images.Quality,
		WebP:      cfg.Images.WebP,
	}

	for _, photo := range photos {
		photo.Assign(next)
		dst := filepath.Join(cfg.Output, photo.OutputName)

		res, err := image.Process(photo.SourcePath, dst, opts)
		if err != nil {
			// A corrupt or unreadable file must not stop the run; its
			// index is not consumed.
			log.Printf("skipping %s: %v", photo.Name, err)
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", photo.Name, err))
			continue
		}
		photo.Width = res.Width
		photo.Height = res.Height

		if p.verbose {
			fmt.Printf("processed %s -> %s (%dx%d)\n", photo.Name, photo.OutputName, res.Width, res.Height)
		}

		if cfg.RemoveOriginals {
			if err := os.Remove(photo.SourcePath); err != nil {
				log.Printf("warning: could not remove original %s: %v", photo.SourcePath, err)
			}
		}

		result.Photos = append(result.Photos, photo)
		next++
	}

	if len(result.Photos) == 0 {
		return result, nil
	}

	if err := p.syncMarkup(result); err != nil {
		return nil, err
	}
	return result, nil
}

// syncMarkup inserts fragments for the newly processed photos into the
// gallery page, newest (highest index) first, skipping any photo the page
// already references.
func (p *Pipeline) syncMarkup(result *Result) error {
	cfg := p.cfg

	doc, err := os.ReadFile(cfg.HTML)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.HTML, err)
	}
	existing := markup.ImageSources(doc)

	var fragments []string
	for i := len(result.Photos) - 1; i >= 0; i-- {
		photo := result.Photos[i]
		if existing[photo.OutputName] {
			continue
		}
		f := markup.Fragment{
			Src: path.Join(filepath.ToSlash(cfg.Output), photo.OutputName),
			Alt: photo.Alt,
		}
		if cfg.Images.WebP {
			f.WebPSrc = path.Join(filepath.ToSlash(cfg.Output), photo.WebPName())
		}
		fragments = append(fragments, markup.Render(f))
	}

	if len(fragments) == 0 {
		result.TotalImages = markup.CountImages(doc)
		return nil
	}

	updated, err := markup.Insert(doc, cfg.Container, fragments)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.HTML, updated, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.HTML, err)
	}

	result.Inserted = len(fragments)
	result.TotalImages = markup.CountImages(updated)
	return nil
}
