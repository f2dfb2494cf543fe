// Package sanitize provides filesystem-safe naming for output artifacts.
//
// Artifact files are named after the repository directory they were extracted
// from. Directory names can contain anything the host filesystem allowed, so
// every name is reduced to ^[a-z0-9_-]+$ before it becomes part of a filename,
// and every artifact carries a digest of the repository's absolute path so two
// checkouts with the same directory name never share an artifact.
package sanitize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// MaxStemLength is the maximum length of the sanitized name component
	// of an artifact filename, before the path digest is appended.
	MaxStemLength = 80

	// HashSuffixLength is the length of the hash suffix added to truncated
	// stems. Format: _<8-char-hash> = 9 characters total.
	HashSuffixLength = 9

	// DigestLength is the number of hex characters of the path digest kept
	// in artifact names.
	DigestLength = 8

	// DefaultStem is used when sanitization produces an empty result.
	DefaultStem = "repo"
)

// DisplayName sanitizes a repository's human-readable name: control
// characters (NUL, CR, LF, TAB and the rest of C0) are stripped and
// surrounding whitespace is trimmed. Unlike Identifier it preserves case
// and punctuation, so the name stays recognizable in logs and metadata.
func DisplayName(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			continue
		}
		result.WriteRune(r)
	}
	return strings.TrimSpace(result.String())
}

// Identifier sanitizes a repository name for use in artifact filenames.
//
// Rules applied:
//   - Converts to lowercase
//   - Replaces characters outside [a-z0-9_-] with underscores
//   - Collapses runs of underscores
//   - Trims leading/trailing underscores and dashes
//   - Truncates to MaxStemLength with hash suffix if too long
//   - Returns DefaultStem if result would be empty
//
// Examples:
//
//	"My Project!" -> "my_project"
//	"go-git"      -> "go-git"
//	"" or "!!!"   -> "repo"
func Identifier(s string) string {
	if s == "" {
		return DefaultStem
	}

	s = strings.ToLower(s)

	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}

	sanitized := result.String()
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_-")

	if sanitized == "" {
		return DefaultStem
	}

	if len(sanitized) > MaxStemLength {
		sanitized = truncateWithHash(sanitized)
	}

	return sanitized
}

// truncateWithHash truncates a string to fit within MaxStemLength, appending
// a hash suffix to preserve uniqueness.
//
// Format: <truncated>_<8-char-hash>
func truncateWithHash(s string) string {
	hash := sha256.Sum256([]byte(s))
	hashSuffix := "_" + hex.EncodeToString(hash[:])[:DigestLength]

	maxBase := MaxStemLength - HashSuffixLength
	truncated := s[:maxBase]
	truncated = strings.TrimRight(truncated, "_-")

	return truncated + hashSuffix
}

// PathDigest returns a short stable digest of a repository path. The digest
// is what keeps artifact names collision-free when two repositories share a
// directory name.
func PathDigest(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:])[:DigestLength]
}

// ArtifactStem builds the filename stem for a repository's artifact from its
// display name and absolute path.
//
// Format: {sanitized_name}-{path_digest}
// Example: ArtifactStem("My Repo", "/srv/repos/My Repo")
//
//	-> "my_repo-3f2a9c01"
//
// The result is guaranteed to be a valid filename component on all supported
// platforms; callers append the artifact extension.
func ArtifactStem(name, path string) string {
	return Identifier(name) + "-" + PathDigest(path)
}
