package filter

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	log "github.com/go-pkgz/lgr"
)

// DefaultKeywords are used when the keywords file does not exist
var DefaultKeywords = []string{"machine learning", "deep learning", "artificial intelligence"}

// LoadKeywords reads one keyword per line, skipping blank lines and # comments.
// A missing file is not an error, DefaultKeywords are returned with a warning.
func LoadKeywords(path string) ([]string, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from config
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] keywords file %s not found, using defaults %v", path, DefaultKeywords)
		return append([]string(nil), DefaultKeywords...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open keywords file: %w", err)
	}
	defer fh.Close()

	var res []string
	seen := map[string]bool{}
	scanner := bufio.NewScanner(fh)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if seen[key] {
			continue
		}
		seen[key] = true
		res = append(res, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	return res, nil
}
