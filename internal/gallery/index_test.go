package gallery

import (
	"path/filepath"
	"sort"
	"testing"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name  string
		want  int
		valid bool
	}{
		{"1_a.jpg", 1, true},
		{"42_sunset.png", 42, true},
		{"0_first.jpeg", 0, true},
		{"a.jpg", 0, false},
		{"_a.jpg", 0, false},
		{"x_a.jpg", 0, false},
		{"-3_a.jpg", 0, false},
		{"12.jpg", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseIndex(tt.name)
		if ok != tt.valid || got != tt.want {
			t.Errorf("ParseIndex(%q) = (%d, %v); want (%d, %v)", tt.name, got, ok, tt.want, tt.valid)
		}
	}
}

func TestExistingIndices_IgnoresJunk(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "1_a.jpg"))
	touch(t, filepath.Join(dir, "5_b.png"))
	touch(t, filepath.Join(dir, "3_c.jpeg"))
	touch(t, filepath.Join(dir, "README.md"))      // not an image
	touch(t, filepath.Join(dir, "unprefixed.jpg")) // no index prefix
	touch(t, filepath.Join(dir, ".DS_Store"))      // hidden

	indices, err := ExistingIndices(dir)
	if err != nil {
		t.Fatalf("ExistingIndices: %v", err)
	}
	sort.Ints(indices)

	want := []int{1, 3, 5}
	if len(indices) != len(want) {
		t.Fatalf("indices = %v; want %v", indices, want)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Errorf("indices = %v; want %v", indices, want)
			break
		}
	}
}

func TestNextIndex(t *testing.T) {
	dir := t.TempDir()

	// Empty gallery starts at 1.
	next, err := NextIndex(dir)
	if err != nil {
		t.Fatalf("NextIndex: %v", err)
	}
	if next != 1 {
		t.Errorf("NextIndex(empty) = %d; want 1", next)
	}

	touch(t, filepath.Join(dir, "5_old.jpg"))
	touch(t, filepath.Join(dir, "2_older.jpg"))

	next, err = NextIndex(dir)
	if err != nil {
		t.Fatalf("NextIndex: %v", err)
	}
	if next != 6 {
		t.Errorf("NextIndex = %d; want 6", next)
	}
}

func TestNextIndex_MissingDir(t *testing.T) {
	next, err := NextIndex(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("NextIndex: %v", err)
	}
	if next != 1 {
		t.Errorf("NextIndex(missing) = %d; want 1", next)
	}
}
