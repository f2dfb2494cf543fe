package extraction

// Options control how much of each commit is captured and which commits are
// filtered out before a record is written.
type Options struct {
	// MaxDiffBytes caps the patch text embedded in a record. Longer patches
	// are cut at the ceiling and suffixed with TruncationMarker.
	MaxDiffBytes int

	// MaxStyleBytes caps the style guide snapshot embedded in a record.
	MaxStyleBytes int

	// SkipBotCommits drops commits whose author name looks automated.
	SkipBotCommits bool

	// MarkSource embeds the repository's remote URLs in every record.
	MarkSource bool

	// IncludeLicense embeds the repository's license label in every record.
	IncludeLicense bool
}

// RepositoryContext carries the per-repository facts every record shares:
// the display name, where the repository came from, which style document it
// tracks, and its license label. It is computed once per repository before
// any commits are built.
type RepositoryContext struct {
	Name           string
	FetchURL       string
	PushURL        string
	StyleGuidePath string
	License        string
}

// Source returns the remote URLs in record form, or nil when the repository
// has none.
func (c *RepositoryContext) Source() *SourceURLs {
	if c.FetchURL == "" && c.PushURL == "" {
		return nil
	}
	return &SourceURLs{Fetch: c.FetchURL, Push: c.PushURL}
}

// SourceURLs records where a repository's content is fetched from and
// pushed to.
type SourceURLs struct {
	Fetch string `json:"fetch,omitempty"`
	Push  string `json:"push,omitempty"`
}

// Record is one line of a corpus artifact. Field tags are the artifact's
// JSON keys; AffectedFiles is always non-nil so it marshals as a list.
type Record struct {
	CommitMsg     string      `json:"commit_msg"`
	Change        string      `json:"change"`
	RecentCommits string      `json:"recent_commits_message"`
	CodeStyle     string      `json:"code_style"`
	AffectedFiles []string    `json:"affected_files"`
	RepoSource    *SourceURLs `json:"repo_source,omitempty"`
	License       string      `json:"license,omitempty"`
}

// SkipReason classifies commits that are filtered out rather than recorded.
type SkipReason string

// Skip reasons, used as log fields and metric labels.
const (
	SkipBot    SkipReason = "bot"
	SkipMerge  SkipReason = "merge"
	SkipRevert SkipReason = "revert"
	SkipSquash SkipReason = "squash"
	SkipFixup  SkipReason = "fixup"

	// SkipFault is applied by callers when Build fails; Build itself never
	// returns it.
	SkipFault SkipReason = "fault"
)
