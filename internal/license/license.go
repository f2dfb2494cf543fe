// Package license identifies a repository's license by handing a candidate
// file to the licensee command-line detector. Detection never fails a
// repository: every fault degrades to a sentinel label.
package license

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Sentinel labels reported when detection cannot name a license.
const (
	// NoLicense means the repository has no candidate license file at all.
	NoLicense = "No License"
	// UnknownLicense means a candidate exists but the detector could not
	// identify it.
	UnknownLicense = "Unknown License"
)

// Tool is the external detector binary.
const Tool = "licensee"

// canonicalNames are probed first, in priority order.
var canonicalNames = []string{
	"LICENSE",
	"LICENSE.txt",
	"LICENSE.md",
	"COPYING",
	"COPYING.txt",
	"COPYING.md",
}

// EnsureTool verifies the detector binary is on PATH. Callers that enable
// license detection should fail fast on startup rather than degrade every
// repository to UnknownLicense.
func EnsureTool() error {
	if _, err := exec.LookPath(Tool); err != nil {
		return fmt.Errorf("license detection requires %s on PATH: %w", Tool, err)
	}
	return nil
}

// FindCandidate picks the license file to hand to the detector from a
// repository's root file names: canonical names win in priority order, then
// the first name containing "license" or "copying" (case-insensitive).
func FindCandidate(entries []string) (string, bool) {
	for _, want := range canonicalNames {
		for _, e := range entries {
			if e == want {
				return e, true
			}
		}
	}
	for _, e := range entries {
		lower := strings.ToLower(e)
		if strings.Contains(lower, "license") || strings.Contains(lower, "copying") {
			return e, true
		}
	}
	return "", false
}

// Resolve maps a repository's root file listing to its license label.
func Resolve(ctx context.Context, repoPath string, entries []string) string {
	name, ok := FindCandidate(entries)
	if !ok {
		return NoLicense
	}
	return DetectLabel(ctx, filepath.Join(repoPath, name))
}

// DetectLabel runs the detector against one file and extracts a label,
// preferring the license-list key, then the SPDX id, then the legacy
// single-license name. The detector's exit code is ignored: licensee exits
// non-zero for unrecognized content but still reports JSON on stdout.
func DetectLabel(ctx context.Context, path string) string {
	cmd := exec.CommandContext(ctx, Tool, "detect", "--json", path)
	out, _ := cmd.Output()

	var parsed detectorOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return UnknownLicense
	}
	return parsed.label()
}

type detectorOutput struct {
	Licenses []struct {
		Key    string `json:"key"`
		SPDXID string `json:"spdx_id"`
	} `json:"licenses"`
	License *struct {
		Name string `json:"name"`
	} `json:"license"`
}

func (d detectorOutput) label() string {
	if len(d.Licenses) > 0 {
		if d.Licenses[0].Key != "" {
			return d.Licenses[0].Key
		}
		if d.Licenses[0].SPDXID != "" {
			return d.Licenses[0].SPDXID
		}
	}
	if d.License != nil && d.License.Name != "" {
		return d.License.Name
	}
	return UnknownLicense
}
