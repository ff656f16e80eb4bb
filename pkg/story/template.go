package story

import (
	"strings"

	"github.com/jvm123/botstory/pkg/domain"
)

// ExpandTemplate substitutes {name} placeholders with the given
// values. "{{" and "}}" are literal braces. A placeholder with no
// corresponding value is a schema/question-text mismatch and returns a
// *domain.TemplateError instead of a partially substituted string.
func ExpandTemplate(tmpl string, values map[string]string) (string, error) {
	var out strings.Builder
	out.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		switch c := tmpl[i]; c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", &domain.TemplateError{Template: tmpl, Placeholder: tmpl[i:]}
			}
			name := tmpl[i+1 : i+end]
			val, ok := values[name]
			if !ok {
				return "", &domain.TemplateError{Template: tmpl, Placeholder: name}
			}
			out.WriteString(val)
			i += end
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				i++
			}
			out.WriteByte('}')
		default:
			out.WriteByte(c)
		}
	}
	return out.String(), nil
}
