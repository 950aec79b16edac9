package tracker

import (
	"regexp"
	"strings"

	"github.com/bugtrack/b/internal/storage"
)

var (
	substitutionLead = regexp.MustCompile(`^s?/`)
	// \1 and \g<name> style group references.
	backrefNumber = regexp.MustCompile(`\\(\d+)`)
	backrefNamed  = regexp.MustCompile(`\\g<(\w+)>`)
)

// IsSubstitution reports whether title is a s/find/replace/ expression
// rather than a literal title.
func IsSubstitution(title string) bool {
	return strings.HasPrefix(title, "s/") || strings.HasPrefix(title, "/")
}

// Substitute applies the s/find/replace/ expression expr to title. Only
// the first match of find is replaced. Group references in replace may be
// written as \1, \g<name> or ${1}.
func Substitute(title, expr string) (string, error) {
	body := strings.TrimRight(substitutionLead.ReplaceAllString(expr, ""), "/")
	find, replace, _ := strings.Cut(body, "/")

	re, err := regexp.Compile(find)
	if err != nil {
		return "", storage.InputError("bad pattern %q in %q: %v", find, expr, err)
	}
	loc := re.FindStringSubmatchIndex(title)
	if loc == nil {
		return title, nil
	}
	var out []byte
	out = append(out, title[:loc[0]]...)
	out = re.ExpandString(out, replacementTemplate(replace), title, loc)
	out = append(out, title[loc[1]:]...)
	return string(out), nil
}

// replacementTemplate rewrites backslash group references into the ${n}
// form understood by regexp.Expand. A literal "$" that is not part of a
// ${...} reference is escaped.
func replacementTemplate(replace string) string {
	var b strings.Builder
	for i := 0; i < len(replace); i++ {
		c := replace[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(replace) && replace[i+1] == '{' {
			if end := strings.IndexByte(replace[i:], '}'); end > 0 {
				b.WriteString(replace[i : i+end+1])
				i += end
				continue
			}
		}
		b.WriteString("$$")
	}
	s := backrefNamed.ReplaceAllString(b.String(), `$${$1}`)
	s = backrefNumber.ReplaceAllString(s, `$${$1}`)
	return strings.ReplaceAll(s, `\\`, `\`)
}
