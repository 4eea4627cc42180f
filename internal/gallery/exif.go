package gallery

import (
	"os"
	"sort"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureTime reads the EXIF capture timestamp (DateTimeOriginal, falling
// back to DateTime) of the image at path. It returns the zero time when the
// file carries no usable EXIF data; PNG files almost never do.
func CaptureTime(path string) time.Time {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}
	}
	t, err := x.DateTime()
	if err != nil {
		return time.Time{}
	}
	return t
}

// SortByTaken orders photos by capture time ascending, so the most recently
// taken photo is processed last and receives the highest display index.
// Photos without a capture time sort before dated ones, keeping their
// name-order position among themselves (the sort is stable).
func SortByTaken(photos []Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].TakenAt.Before(photos[j].TakenAt)
	})
}
