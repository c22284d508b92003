package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/models"
)

var errOutsideRoot = errors.New("path escapes frames root")

// ResolveImages maps public slide references (/frames/<lectureId>/<file>) to files under framesRoot,
// keeping slide order. References that do not live under the prefix are returned as errors.
func ResolveImages(framesRoot, urlPrefix string, slides []models.Slide) ([]string, error) {
	prefix := strings.TrimSuffix(urlPrefix, "/") + "/"

	paths := make([]string, 0, len(slides))
	for _, s := range slides {
		if !strings.HasPrefix(s.Image, prefix) {
			return nil, fmt.Errorf("slide image %q: %w", s.Image, errOutsideRoot)
		}
		rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(s.Image, prefix)))
		if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
			return nil, fmt.Errorf("slide image %q: %w", s.Image, errOutsideRoot)
		}
		paths = append(paths, filepath.Join(framesRoot, rel))
	}
	return paths, nil
}
