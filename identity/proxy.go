package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ParseProxies splits a newline or comma delimited proxy list. Quotes and
// spaces are stripped and empty entries dropped.
func ParseProxies(content string) []string {
	clean := strings.NewReplacer(
		"'", "",
		"\"", "",
		" ", "",
		"\t", "",
		"\r", "",
		"\n", ",",
	).Replace(strings.TrimSpace(content))

	var proxies []string
	for _, p := range strings.Split(clean, ",") {
		if p != "" {
			proxies = append(proxies, p)
		}
	}
	return proxies
}

// LoadProxies reads a proxy list from path. A missing file or an empty
// path yields no proxies and no error.
func LoadProxies(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading proxy list: %w", err)
	}

	return ParseProxies(string(data)), nil
}
