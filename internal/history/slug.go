package history

import "strings"

const (
	maxSlugLen     = 50
	unnamedFeature = "unnamed-feature"
)

// Slugify converts a feature name into the key used to group runs.
// Example: "Recipe sharing (v2)" → "recipe-sharing-v2"
//
// Rules:
//   - Lowercase
//   - Spaces, underscores and hyphens collapse into a single hyphen
//   - Other non-alphanumeric characters are removed
//   - Truncated to 50 characters (at a word boundary if possible)
//   - Empty input returns "unnamed-feature"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '_' || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return unnamedFeature
	}
	if len(slug) <= maxSlugLen {
		return slug
	}

	truncated := slug[:maxSlugLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxSlugLen/2 {
		truncated = truncated[:lastHyphen]
	}
	return strings.TrimRight(truncated, "-")
}
