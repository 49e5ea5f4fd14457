// Package format substitutes {placeholder} references in configuration
// documents.
//
// A placeholder is a path into the format context: a name followed by any
// number of .attribute or [key] selectors, for example
// {tavern.env_vars.HOME} or {servers[0].host}. Doubled braces produce literal
// braces. A string made of a single placeholder is replaced by the referenced
// value with its type intact; otherwise every placeholder must reference a
// scalar, which is rendered as text.
//
// Type keeping differs from Python str.format, which always yields a string:
// "{tavern.env_vars}" formats to the environment map and "{retries}" to an
// int. Wrap the placeholder in other text to force a string.
package format

import (
	"strconv"
	"strings"

	"github.com/eugenenazirov/tavern-settings/internal/document"
)

// Formatter formats documents with Keys.
type Formatter struct{}

// Format implements the formatter collaborator used by the config loader.
func (Formatter) Format(v, ctx document.Value) (document.Value, error) {
	return Keys(v, ctx)
}

// Keys formats every string found in v against ctx. Map keys are left as is.
func Keys(v, ctx document.Value) (document.Value, error) {
	switch v.Kind() {
	case document.KindString:
		s, _ := v.AsString()
		return String(s, ctx)
	case document.KindList, document.KindMap:
		return v.Map(func(child document.Value) (document.Value, error) {
			return Keys(child, ctx)
		})
	default:
		return v, nil
	}
}

// String formats a single string against ctx.
func String(s string, ctx document.Value) (document.Value, error) {
	if !strings.ContainsAny(s, "{}") {
		return document.Str(s), nil
	}

	segments, err := parse(s)
	if err != nil {
		return document.Value{}, err
	}

	if len(segments) == 1 && segments[0].field {
		return lookup(ctx, segments[0].text, s)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if !seg.field {
			sb.WriteString(seg.text)
			continue
		}
		v, err := lookup(ctx, seg.text, s)
		if err != nil {
			return document.Value{}, err
		}
		if !v.IsScalar() {
			return document.Value{}, NonScalarError{Key: seg.text, Input: s}
		}
		sb.WriteString(v.String())
	}
	return document.Str(sb.String()), nil
}

type segment struct {
	text  string
	field bool
}

func parse(s string) ([]segment, error) {
	var (
		out     []segment
		literal strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			out = append(out, segment{text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, SyntaxError{Input: s, Offset: i, Reason: "unclosed '{'"}
			}
			field := s[i+1 : i+1+end]
			if err := checkField(s, i, field); err != nil {
				return nil, err
			}
			flush()
			out = append(out, segment{text: field, field: true})
			i += end + 1
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, SyntaxError{Input: s, Offset: i, Reason: "single '}' encountered"}
		default:
			literal.WriteByte(c)
		}
	}
	flush()
	return out, nil
}

func checkField(s string, offset int, field string) error {
	if field == "" {
		return SyntaxError{Input: s, Offset: offset, Reason: "empty placeholder"}
	}
	depth := 0
	for _, c := range field {
		switch c {
		case '{':
			return SyntaxError{Input: s, Offset: offset, Reason: "nested placeholders are not supported"}
		case '[':
			depth++
		case ']':
			depth--
		case '!', ':':
			if depth == 0 {
				return SyntaxError{Input: s, Offset: offset, Reason: "conversions and format specs are not supported"}
			}
		}
	}
	if depth != 0 {
		return SyntaxError{Input: s, Offset: offset, Reason: "unbalanced '[' in placeholder"}
	}
	return nil
}

// splitPath breaks name.attr[key] into its selectors.
func splitPath(field string) ([]string, bool) {
	var parts []string
	i := strings.IndexAny(field, ".[")
	if i < 0 {
		return []string{field}, true
	}
	if i == 0 {
		return nil, false
	}
	parts = append(parts, field[:i])
	rest := field[i:]

	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return nil, false
			}
			parts = append(parts, rest[:end])
			rest = rest[end:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end <= 1 {
				return nil, false
			}
			parts = append(parts, rest[1:end])
			rest = rest[end+1:]
		default:
			return nil, false
		}
	}
	return parts, true
}

func lookup(ctx document.Value, field, input string) (document.Value, error) {
	parts, ok := splitPath(field)
	if !ok {
		return document.Value{}, SyntaxError{Input: input, Reason: "malformed placeholder " + strconv.Quote(field)}
	}

	cur := ctx
	for _, part := range parts {
		var next document.Value
		found := false
		switch {
		case cur.IsMap():
			next, found = cur.Get(part)
		case cur.IsList():
			if idx, err := strconv.Atoi(part); err == nil {
				next, found = cur.Index(idx)
			}
		}
		if !found {
			return document.Value{}, MissingFormatError{Key: field, Input: input}
		}
		cur = next
	}
	return cur, nil
}
