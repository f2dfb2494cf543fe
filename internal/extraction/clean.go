package extraction

import (
	"regexp"
	"strings"
)

var (
	issueKeywordPattern = regexp.MustCompile(`(?i)\b(fixes|closes|resolves|related|addresses)\s*#[0-9]+\b`)
	issueParenPattern   = regexp.MustCompile(`\s*\(#[0-9]+\)`)
	issueBarePattern    = regexp.MustCompile(`\b#[0-9]+\b`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	botAuthorPattern    = regexp.MustCompile(`(?i)\b(?:bot|robot)\b|\[bot\]`)
)

// subjectPunctuation is trimmed from both ends of a cleaned subject.
const subjectPunctuation = ".,;:!?"

// CleanMessage reduces a raw commit message to its normalized subject line:
// only the first line is kept, issue references and closing keywords are
// removed, whitespace runs collapse to a single space, and surrounding
// punctuation and whitespace are trimmed. The pass repeats until the
// subject stops changing, since removing one reference can expose another;
// cleaning is therefore idempotent.
func CleanMessage(message string) string {
	subject := strings.TrimSpace(message)
	if idx := strings.IndexByte(subject, '\n'); idx >= 0 {
		subject = subject[:idx]
	}
	for {
		next := cleanPass(subject)
		if next == subject {
			return subject
		}
		subject = next
	}
}

func cleanPass(subject string) string {
	subject = issueKeywordPattern.ReplaceAllString(subject, "")
	subject = issueParenPattern.ReplaceAllString(subject, "")
	subject = issueBarePattern.ReplaceAllString(subject, "")
	subject = whitespacePattern.ReplaceAllString(subject, " ")
	subject = strings.TrimSpace(subject)
	subject = strings.Trim(subject, subjectPunctuation)
	return strings.TrimSpace(subject)
}

// classifyShape reports the skip reason for subjects that mark merge,
// revert, or autosquash commits, or "" for substantive subjects. The
// subject must already be cleaned; the autosquash prefixes are matched
// case-sensitively.
func classifyShape(subject string) SkipReason {
	lower := strings.ToLower(subject)
	switch {
	case strings.HasPrefix(lower, "merge "):
		return SkipMerge
	case strings.HasPrefix(lower, "revert "):
		return SkipRevert
	case strings.HasPrefix(subject, "squash!"):
		return SkipSquash
	case strings.HasPrefix(subject, "fixup!"):
		return SkipFixup
	}
	return ""
}

// isBotAuthor reports whether an author display name looks automated.
func isBotAuthor(author string) bool {
	return botAuthorPattern.MatchString(author)
}
