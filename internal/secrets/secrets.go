// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value. Environment variables override file values.
//
// Supported key files: semantic-scholar-api-key, zotero-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
//
// After the directory scan, any environment variable of the form
// DIGEST_ENGINE_SECRET_<NAME> (key name uppercased, dashes as underscores)
// overrides the file value for that key.
func Load(dir string) (map[string]string, error) {
	secrets := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, envPrefix) {
			continue
		}
		name := envToName(strings.TrimPrefix(key, envPrefix))
		if value = strings.TrimSpace(value); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

const envPrefix = "DIGEST_ENGINE_SECRET_"

// envToName maps SEMANTIC_SCHOLAR_API_KEY back to semantic-scholar-api-key.
func envToName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}
