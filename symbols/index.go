package symbols

import "strings"

// ExtractTopLevel tokenises src and returns the set of identifiers
// introduced at depth 0 (package names and other top-level declarations),
// per spec.md §4.6.
//
// The heuristic: at brace depth 0, a run of identifier/operator tokens
// terminated by `;` or `{` is a declaration header ("package Foo",
// "part def Vehicle"); its last bare name is the introduced symbol, unless
// the run contains a qualification token (`.` or `::`), which marks a
// reference to an existing symbol rather than a new declaration.
func ExtractTopLevel(src string) ([]string, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}

	depth := 0
	var run []string
	qualified := false
	var names []string
	seen := map[string]bool{}

	flush := func(closingBrace bool) {
		if depth == 0 && len(run) > 0 && !qualified {
			name := run[len(run)-1]
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		run = nil
		qualified = false
	}

	for _, t := range toks {
		switch t.Kind {
		case Space, LineComment, BlockComment:
			// ignored
		case BraceOpen:
			flush(false)
			depth++
		case BraceClose:
			if depth > 0 {
				depth--
			}
			run = nil
			qualified = false
		case Semicolon:
			flush(false)
		case Identifier:
			if depth == 0 {
				run = append(run, t.Text)
			}
		case Quoted:
			if depth == 0 {
				run = append(run, unescapeQuoted(t.Text))
			}
		case Period, DoubleColon:
			if depth == 0 {
				qualified = true
			}
		case Comma:
			if depth == 0 {
				run = nil
				qualified = false
			}
		default:
			// LT, GT, Equals, String, OtherSymbol, OpenParen/CloseParen,
			// OpenSquare/CloseSquare: none of these introduce a depth-0
			// declaration name on their own; a run in progress survives
			// them (e.g. "alias A for B;" keeps scanning to ";").
		}
	}

	return names, nil
}

func unescapeQuoted(tok string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "'"), "'")
	return strings.ReplaceAll(inner, `\'`, "'")
}
