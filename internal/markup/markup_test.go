package markup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const page = `<!DOCTYPE html>
<html>
<body>
  <h1>Photos</h1>
  <div class="intro photo-grid" id="grid">
  <img src="photos/2_old.jpg" alt="old" loading="lazy">
  <img src="photos/1_older.jpg" alt="older" loading="lazy">
  </div>
</body>
</html>`

func TestRender_PlainImage(t *testing.T) {
	got := Render(Fragment{Src: "photos/6_a.jpg", Alt: "a"})
	want := `<img src="photos/6_a.jpg" alt="a" loading="lazy">`
	if got != want {
		t.Errorf("Render = %q; want %q", got, want)
	}
}

func TestRender_EscapesAlt(t *testing.T) {
	got := Render(Fragment{Src: "photos/1_x.jpg", Alt: `say "hi" <now>`})
	if strings.Contains(got, `<now>`) {
		t.Errorf("alt text not escaped: %q", got)
	}
}

func TestRender_WebPPicture(t *testing.T) {
	got := Render(Fragment{Src: "photos/6_a.jpg", WebPSrc: "photos/6_a.webp", Alt: "a"})
	if !strings.HasPrefix(got, "<picture>") || !strings.HasSuffix(got, "</picture>") {
		t.Errorf("expected <picture> wrapper, got %q", got)
	}
	if !strings.Contains(got, `srcset="photos/6_a.webp"`) {
		t.Errorf("missing webp source in %q", got)
	}
	if strings.Count(got, "<img") != 1 {
		t.Errorf("expected exactly one <img> per photo, got %q", got)
	}
}

func TestInsert_AfterOpeningTag(t *testing.T) {
	fragments := []string{
		`<img src="photos/7_b.png" alt="b" loading="lazy">`,
		`<img src="photos/6_a.jpg" alt="a" loading="lazy">`,
	}

	updated, err := Insert([]byte(page), "photo-grid", fragments)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	doc := string(updated)

	// New fragments sit between the opening tag and the existing images.
	openIdx := strings.Index(doc, `id="grid">`)
	bIdx := strings.Index(doc, "7_b.png")
	aIdx := strings.Index(doc, "6_a.jpg")
	oldIdx := strings.Index(doc, "2_old.jpg")
	if !(openIdx < bIdx && bIdx < aIdx && aIdx < oldIdx) {
		t.Errorf("fragment order wrong:\n%s", doc)
	}
}

func TestInsert_ExistingContentUntouched(t *testing.T) {
	updated, err := Insert([]byte(page), "photo-grid", []string{`<img src="photos/3_new.jpg" alt="new" loading="lazy">`})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Everything before the insertion point and after it is byte-identical.
	doc := string(updated)
	marker := `id="grid">`
	cut := strings.Index(page, marker) + len(marker)
	if !strings.HasPrefix(doc, page[:cut]) {
		t.Error("content before insertion point was altered")
	}
	if !strings.HasSuffix(doc, page[cut:]) {
		t.Error("content after insertion point was altered")
	}
}

func TestInsert_ContainerNotFound(t *testing.T) {
	_, err := Insert([]byte("<html><body></body></html>"), "photo-grid", []string{"<img>"})
	if !errors.Is(err, ErrContainerNotFound) {
		t.Errorf("err = %v; want ErrContainerNotFound", err)
	}
}

func TestImageSources(t *testing.T) {
	sources := ImageSources([]byte(page))
	if !sources["2_old.jpg"] || !sources["1_older.jpg"] {
		t.Errorf("sources = %v; want existing images present", sources)
	}
	if sources["6_a.jpg"] {
		t.Error("unexpected source 6_a.jpg")
	}
}

func TestCountImages(t *testing.T) {
	if got := CountImages([]byte(page)); got != 2 {
		t.Errorf("CountImages = %d; want 2", got)
	}
}

func TestSyncFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		t.Fatal(err)
	}

	err := SyncFile(path, "photo-grid", []string{`<img src="photos/3_c.jpg" alt="c" loading="lazy">`})
	if err != nil {
		t.Fatalf("SyncFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if CountImages(data) != 3 {
		t.Errorf("CountImages = %d; want 3", CountImages(data))
	}
}

func TestSyncFile_NoMutationOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	original := "<html><body><div class=\"other\"></div></body></html>"
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := SyncFile(path, "photo-grid", []string{"<img>"}); err == nil {
		t.Fatal("expected error for missing container")
	}

	data, _ := os.ReadFile(path)
	if string(data) != original {
		t.Error("file was mutated despite the error")
	}
}
