package sanitize

import (
	"strings"
	"testing"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple lowercase",
			input:    "myrepo",
			expected: "myrepo",
		},
		{
			name:     "uppercase conversion",
			input:    "MyRepo",
			expected: "myrepo",
		},
		{
			name:     "dots to underscores",
			input:    "repo.git",
			expected: "repo_git",
		},
		{
			name:     "slashes to underscores",
			input:    "user/repo",
			expected: "user_repo",
		},
		{
			name:     "dashes preserved",
			input:    "go-git",
			expected: "go-git",
		},
		{
			name:     "special characters",
			input:    "my-repo!@#$%",
			expected: "my-repo",
		},
		{
			name:     "multiple underscores collapsed",
			input:    "foo___bar",
			expected: "foo_bar",
		},
		{
			name:     "leading/trailing underscores trimmed",
			input:    "_foo_bar_",
			expected: "foo_bar",
		},
		{
			name:     "leading/trailing dashes trimmed",
			input:    "-repo-",
			expected: "repo",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "repo",
		},
		{
			name:     "only invalid chars",
			input:    "!!!",
			expected: "repo",
		},
		{
			name:     "numbers preserved",
			input:    "repo123",
			expected: "repo123",
		},
		{
			name:     "spaces to underscores",
			input:    "my repo",
			expected: "my_repo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Identifier(tt.input)
			if result != tt.expected {
				t.Errorf("Identifier(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name unchanged",
			input:    "My-Repo.git",
			expected: "My-Repo.git",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  myrepo  ",
			expected: "myrepo",
		},
		{
			name:     "control characters stripped",
			input:    "my\x00re\rpo\n",
			expected: "myrepo",
		},
		{
			name:     "tabs stripped",
			input:    "my\trepo",
			expected: "myrepo",
		},
		{
			name:     "case and punctuation preserved",
			input:    "Repo (fork)",
			expected: "Repo (fork)",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DisplayName(tt.input)
			if result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIdentifier_LengthLimit(t *testing.T) {
	// Test that long names are truncated with hash
	longInput := strings.Repeat("a", 120)
	result := Identifier(longInput)

	if len(result) > MaxStemLength {
		t.Errorf("Identifier should be <= %d chars, got %d", MaxStemLength, len(result))
	}

	// Should end with hash suffix pattern _XXXXXXXX
	if !strings.Contains(result, "_") {
		t.Error("Truncated name should contain hash suffix")
	}
}

func TestIdentifier_LengthLimit_Uniqueness(t *testing.T) {
	// Different long inputs should produce different outputs
	input1 := strings.Repeat("a", 120)
	input2 := strings.Repeat("a", 119) + "b"

	result1 := Identifier(input1)
	result2 := Identifier(input2)

	if result1 == result2 {
		t.Error("Different inputs should produce different hashed outputs")
	}
}

func TestIdentifier_ExactlyMaxLength(t *testing.T) {
	// Input exactly at max length should not be truncated
	input := strings.Repeat("a", MaxStemLength)
	result := Identifier(input)

	if result != input {
		t.Errorf("Input at max length should not be modified, got %q", result)
	}
}

func TestPathDigest(t *testing.T) {
	digest := PathDigest("/srv/repos/myrepo")

	if len(digest) != DigestLength {
		t.Errorf("PathDigest should be %d chars, got %d", DigestLength, len(digest))
	}
	for _, r := range digest {
		if !((r >= 'a' && r <= 'f') || (r >= '0' && r <= '9')) {
			t.Errorf("PathDigest contains non-hex char %q in %q", string(r), digest)
		}
	}

	// Deterministic
	if digest != PathDigest("/srv/repos/myrepo") {
		t.Error("PathDigest should be stable for the same path")
	}

	// Distinct paths diverge
	if digest == PathDigest("/home/user/repos/myrepo") {
		t.Error("Different paths should produce different digests")
	}
}

func TestArtifactStem(t *testing.T) {
	stem := ArtifactStem("My Repo", "/srv/repos/My Repo")

	if !strings.HasPrefix(stem, "my_repo-") {
		t.Errorf("ArtifactStem should start with sanitized name, got %q", stem)
	}
	if len(stem) != len("my_repo-")+DigestLength {
		t.Errorf("ArtifactStem has unexpected length: %q", stem)
	}
}

func TestArtifactStem_SameNameDifferentPaths(t *testing.T) {
	// Two checkouts named identically must not collide
	stem1 := ArtifactStem("repo", "/srv/a/repo")
	stem2 := ArtifactStem("repo", "/srv/b/repo")

	if stem1 == stem2 {
		t.Error("Same name under different paths should produce different stems")
	}
}

func TestArtifactStem_ValidChars(t *testing.T) {
	// Result should only contain filename-safe chars
	stem := ArtifactStem("My Repo!/weird", "/srv/repos/x")

	for _, r := range stem {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			t.Errorf("ArtifactStem contains invalid char %q in %q", string(r), stem)
		}
	}
}
