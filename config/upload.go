package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type UploadConfig struct {
	AllowedExtensions []string
	MaxSizeMB         int64
	PathPrefix        string
}

var UploadContexts = map[string]UploadConfig{
	"import": {
		AllowedExtensions: []string{".csv", ".xlsx"},
		MaxSizeMB:         10,
		PathPrefix:        "imports",
	},
}

// Check validates a file name and size against the rules of the context.
func (u UploadConfig) Check(fileName string, size int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	allowed := false
	for _, e := range u.AllowedExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("file type %q is not allowed, expected one of %s", ext, strings.Join(u.AllowedExtensions, ", "))
	}
	if u.MaxSizeMB > 0 && size > u.MaxSizeMB*1024*1024 {
		return fmt.Errorf("file is larger than %d MB", u.MaxSizeMB)
	}
	return nil
}
