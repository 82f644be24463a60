package inserter

import (
	"strings"

	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/scanner"
)

// memberSpan holds token indexes of one top-level member.
type memberSpan struct {
	key        int
	valueStart int
	valueEnd   int
}

// splice inserts key: value after the last member of the root object of doc,
// copying the layout of the existing members. It returns the new text and
// the offset just past the inserted fragment.
func (in *Inserter) splice(doc, key string, value models.Value) (string, int, bool) {
	tokens, err := scanner.Scan(doc)
	if err != nil || len(tokens) < 2 || tokens[0].Kind != models.TokenObjectStart {
		return "", 0, false
	}
	members, closing, ok := topLevelMembers(tokens)
	if !ok {
		return "", 0, false
	}
	open := tokens[0]
	nl := "\n"
	if strings.Contains(doc, "\r\n") {
		nl = "\r\n"
	}

	if len(members) == 0 {
		obj := models.NewObject(models.Member{Key: key, Value: value})
		rendered := formatter.PrettyWithPrefix(obj, lineIndent(doc, open.Start.Offset), in.f.Unit())
		rendered = strings.ReplaceAll(rendered, "\n", nl)
		start, end := open.Start.Offset, tokens[closing].End.Offset
		text := doc[:start] + rendered + doc[end:]
		return text, start + len(rendered), true
	}

	first := tokens[members[0].key]
	last := members[len(members)-1]
	lastKey := tokens[last.key]
	colonSep := doc[lastKey.End.Offset:tokens[last.valueStart].Start.Offset]
	if strings.ContainsAny(colonSep, "\r\n") {
		colonSep = ": "
	}

	var fragment string
	if strings.Contains(doc[open.End.Offset:first.Start.Offset], "\n") {
		indent := lineIndent(doc, lastKey.Start.Offset)
		unit := in.f.Unit()
		if braceIndent := lineIndent(doc, open.Start.Offset); len(indent) > len(braceIndent) && strings.HasPrefix(indent, braceIndent) {
			unit = indent[len(braceIndent):]
		}
		rendered := formatter.PrettyWithPrefix(value, indent, unit)
		fragment = "," + nl + indent + formatter.Quote(key) + colonSep + strings.ReplaceAll(rendered, "\n", nl)
	} else {
		sep := ""
		if len(members) > 1 {
			comma := tokens[members[0].valueEnd+1]
			sep = doc[comma.End.Offset:tokens[members[1].key].Start.Offset]
		} else if strings.TrimSpace(colonSep) != colonSep {
			sep = " "
		}
		fragment = "," + sep + formatter.Quote(key) + colonSep + formatter.Minify(value)
	}

	at := tokens[last.valueEnd].End.Offset
	return doc[:at] + fragment + doc[at:], at + len(fragment), true
}

// topLevelMembers walks the root object's tokens and returns its members and
// the index of the closing brace.
func topLevelMembers(tokens []models.Token) ([]memberSpan, int, bool) {
	var members []memberSpan
	i := 1
	for i < len(tokens) && tokens[i].Kind != models.TokenObjectEnd {
		if tokens[i].Kind == models.TokenComma {
			i++
			continue
		}
		if tokens[i].Kind != models.TokenString || i+2 >= len(tokens) {
			return nil, 0, false
		}
		end := skipValue(tokens, i+2)
		if end < 0 {
			return nil, 0, false
		}
		members = append(members, memberSpan{key: i, valueStart: i + 2, valueEnd: end})
		i = end + 1
	}
	if i >= len(tokens) {
		return nil, 0, false
	}
	return members, i, true
}

// skipValue returns the index of the last token of the value starting at i.
func skipValue(tokens []models.Token, i int) int {
	switch tokens[i].Kind {
	case models.TokenObjectStart, models.TokenArrayStart:
	default:
		return i
	}
	depth := 0
	for ; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case models.TokenObjectStart, models.TokenArrayStart:
			depth++
		case models.TokenObjectEnd, models.TokenArrayEnd:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// lineIndent returns the leading spaces and tabs of the line containing offset.
func lineIndent(doc string, offset int) string {
	start := strings.LastIndexByte(doc[:offset], '\n') + 1
	end := start
	for end < len(doc) && (doc[end] == ' ' || doc[end] == '\t') {
		end++
	}
	return doc[start:end]
}
