package imgutil

import "regexp"

var dataURIPrefix = regexp.MustCompile(`^data:image/[A-Za-z0-9.+-]+;base64,`)

// StripDataURI buang prefix "data:image/...;base64," kalau ada; selain itu
// payload dikembalikan apa adanya.
func StripDataURI(in string) string {
	if loc := dataURIPrefix.FindStringIndex(in); loc != nil {
		return in[loc[1]:]
	}
	return in
}
