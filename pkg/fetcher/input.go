package fetcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
	"gammascope/pkg/logger"
	"gammascope/pkg/models"
)

// InputPath returns the path of numbered input file n
func InputPath(dir string, n int) string {
	return filepath.Join(dir, strconv.Itoa(n)+".json")
}

// LoadDescriptors reads <dir>/<n>.json for n in [first, last] and returns
// their results in file order. Missing files are skipped with a notice;
// a malformed file is an error naming it.
func LoadDescriptors(dir string, first, last int, log logger.Logger) ([]models.Descriptor, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	var all []models.Descriptor
	files := 0
	for n := first; n <= last; n++ {
		path := InputPath(dir, n)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.WithField("file", path).Info("Skipping missing input file")
				continue
			}
			return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
		}

		var in models.InputFile
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("malformed input file %s: %w", path, err)
		}
		all = append(all, in.Results...)
		files++
	}

	log.InfoWithFields("Input loaded", map[string]interface{}{
		"files":       files,
		"descriptors": len(all),
	})
	return all, nil
}
