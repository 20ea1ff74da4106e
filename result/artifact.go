package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactFileName is the fixed name of the local results artifact written at
// the end of a run.
const ArtifactFileName = ".VERDICT_RESULTS.json"

// WriteArtifact serializes the run tree as indented UTF-8 JSON and writes it
// to the artifact file under dir (the working directory when dir is empty).
// Returns the path written.
func WriteArtifact(run *Run, dir string) (string, error) {
	if run == nil {
		return "", errors.New("cannot write artifact for nil run")
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		// Attribute maps may carry values foreign to JSON (channels,
		// functions). Those degrade to null rather than failing the write.
		sanitizeAttributes(run)
		data, err = json.MarshalIndent(run, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to serialize run %s: %w", run.RunID, err)
		}
	}

	path := filepath.Join(dir, ArtifactFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return path, nil
}

func sanitizeAttributes(run *Run) {
	for _, m := range []map[string]any{run.Capabilities, run.Options, run.Metadata, run.TestAttributes} {
		sanitizeMap(m)
	}
	for _, suite := range run.Suites {
		for _, c := range suite.Cases {
			sanitizeMap(c.Context)
			sanitizeMap(c.Arguments)
		}
	}
}

func sanitizeMap(m map[string]any) {
	for k, v := range m {
		if _, err := json.Marshal(v); err != nil {
			m[k] = nil
		}
	}
}
