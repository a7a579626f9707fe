package artifact

import "strings"

const maxStemLength = 128

var invalidFilenameChars = `<>:"/\|?*`

// SanitizeStem makes a string safe to use as a filename stem: characters the
// common filesystems reject become underscores, leading and trailing dots and
// spaces are trimmed, and the length is capped.
func SanitizeStem(stem string) string {
	var b strings.Builder
	b.Grow(len(stem))
	for _, r := range stem {
		if r < 0x20 || strings.ContainsRune(invalidFilenameChars, r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.Trim(b.String(), " .")
	if len(cleaned) > maxStemLength {
		cleaned = strings.Trim(cleaned[:maxStemLength], " .")
	}
	if cleaned == "" {
		return "episode"
	}
	return cleaned
}
