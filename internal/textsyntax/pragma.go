package textsyntax

import "regexp"

var languagePragma = regexp.MustCompile(`#language\s*"([^"]*)"\s*\.`)

// ExtractLanguagePragma pulls a leading `#language "<constraint>".`
// directive out of src, returning the constraint (empty if none is
// present) and the remaining program text with that directive removed.
// The directive is not part of the rule/fact/constraint/show/external
// grammar Parse otherwise accepts, so it is stripped before tokenizing.
func ExtractLanguagePragma(src string) (constraint string, remaining string) {
	m := languagePragma.FindStringSubmatchIndex(src)
	if m == nil {
		return "", src
	}

	return src[m[2]:m[3]], src[:m[0]] + src[m[1]:]
}
