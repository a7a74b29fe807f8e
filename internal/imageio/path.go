package imageio

import (
	"path/filepath"
	"strings"
)

// CleanPath derives the default output path for a cleaned map by
// appending "_clean" before the input's extension:
// maps/floor2.pgm -> maps/floor2_clean.pgm.
func CleanPath(input string) string {
	return withSuffix(input, "_clean", "")
}

// ComparisonPath derives the default output path for the side-by-side
// comparison image. The comparison is color, so the extension is always
// .png regardless of the input format.
func ComparisonPath(input string) string {
	return withSuffix(input, "_comparison", ".png")
}

// withSuffix appends suffix to the stem of path, keeping the original
// extension unless ext overrides it.
func withSuffix(path, suffix, ext string) string {
	oldExt := filepath.Ext(path)
	stem := strings.TrimSuffix(path, oldExt)
	if ext == "" {
		ext = oldExt
	}
	return stem + suffix + ext
}
