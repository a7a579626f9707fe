package repourl

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultHost is the repository hosting domain accepted by IsValid.
const DefaultHost = "github.com"

// Exactly https://<host>/<owner>/<name> with no trailing path, query, or fragment.
var repoPattern = regexp.MustCompile(`^https://` + regexp.QuoteMeta(DefaultHost) + `/[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// Reference identifies a repository by its owner and name.
type Reference struct {
	Owner string
	Name  string
}

// IsValid reports whether s is a well-formed repository URL. The check is
// purely syntactic; no network access happens here.
func IsValid(s string) bool {
	return repoPattern.MatchString(s)
}

// Parse validates s and splits it into a Reference. The boolean is false when
// validation fails or the path does not yield two non-empty segments.
func Parse(s string) (Reference, bool) {
	if !IsValid(s) {
		return Reference{}, false
	}
	rest := strings.TrimPrefix(s, "https://"+DefaultHost+"/")
	segments := make([]string, 0, 2)
	for _, seg := range strings.Split(rest, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) < 2 {
		return Reference{}, false
	}
	return Reference{Owner: segments[0], Name: segments[1]}, true
}

// String renders the reference as owner/name.
func (r Reference) String() string {
	return r.Owner + "/" + r.Name
}

// URL rebuilds the canonical repository URL.
func (r Reference) URL() string {
	return fmt.Sprintf("https://%s/%s/%s", DefaultHost, r.Owner, r.Name)
}

// IsZero reports whether the reference is empty.
func (r Reference) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}
