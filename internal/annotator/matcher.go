package annotator

import "regexp"

// functionPattern recognizes a function-definition opener on a single line:
// an identifier, a parenthesized group free of ';' and '{', then '{'.
// Prototypes (ending in ';') and signatures that wrap before the brace do not
// match. Control statements such as "if (x) {" do match.
var functionPattern = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^;{]*\)\s*\{`)

// MatchFunction reports whether line opens a function definition and returns
// the name from the leftmost match.
func MatchFunction(line string) (string, bool) {
	m := functionPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
