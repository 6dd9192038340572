package puzzle

import "regexp"

var (
	puzzleIDPattern = regexp.MustCompile(`(?i)\b[a-z0-9]{5}\b`)
	studyIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9]{8}$`)
	tokenPattern    = regexp.MustCompile(`^lip_[a-zA-Z0-9]{20}$`)
)

// ExtractIDs returns every five character puzzle ID in input, in order.
// IDs may be separated by whitespace or commas.
func ExtractIDs(input string) []string {
	return puzzleIDPattern.FindAllString(input, -1)
}

// ValidStudyID reports whether id looks like a study ID.
func ValidStudyID(id string) bool {
	return studyIDPattern.MatchString(id)
}

// ValidToken reports whether token looks like a personal access token.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}
