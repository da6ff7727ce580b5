package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AttachmentList maps resource names to the files providing their content.
type AttachmentList map[string]string

// LoadAttachmentList reads an attachment list in YAML or JSON format.
// Relative file paths are resolved against the directory of the list.
func LoadAttachmentList(path string) (AttachmentList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment list: %w", err)
	}

	var list AttachmentList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse attachment list %q: %w", path, err)
	}

	base := filepath.Dir(path)
	for name, file := range list {
		if file == "" {
			return nil, fmt.Errorf("attachment list %q: no file for %q", path, name)
		}
		if !filepath.IsAbs(file) {
			list[name] = filepath.Join(base, file)
		}
	}
	return list, nil
}
