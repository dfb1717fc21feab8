package matrix

import "strings"

// Row keys are built as groupID:value pairs joined with "|". Both characters
// are legal in option values typed by back-office users, so each fragment is
// percent-escaped before joining. Escaping "%" itself keeps the encoding
// unambiguous.
const (
	keyPairSep = ":"
	keyPartSep = "|"
)

var keyEscaper = strings.NewReplacer(
	"%", "%25",
	":", "%3A",
	"|", "%7C",
)

// BuildKey derives the stable identity of a variant combination from its
// ordered (group, value) coordinates. Equal input sequences always yield equal
// keys; distinct sequences cannot collide because fragments are escaped.
func BuildKey(parts []Part) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(keyPartSep)
		}
		b.WriteString(keyEscaper.Replace(p.GroupID.String()))
		b.WriteString(keyPairSep)
		b.WriteString(keyEscaper.Replace(p.Value))
	}
	return b.String()
}
