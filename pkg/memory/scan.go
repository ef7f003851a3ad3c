package memory

import (
	"fmt"
	"strings"
	"unicode"
)

// tokenKind enumerates the token types of the declaration language.
type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokStar
	tokAmp
	tokAssign
	tokConst
)

func (k tokenKind) String() string {
	switch k {
	case tokIdent:
		return "identifier"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokStar:
		return "'*'"
	case tokAmp:
		return "'&'"
	case tokAssign:
		return "'='"
	case tokConst:
		return "'const'"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
}

// scanStatement tokenizes one statement (without its terminating ';').
// Identifiers are case-sensitive; "const" is the only keyword.
func scanStatement(s string) ([]token, error) {
	var toks []token
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		switch {
		case unicode.IsSpace(ch):
			i++
		case ch == '*':
			toks = append(toks, token{tokStar, "*"})
			i++
		case ch == '&':
			toks = append(toks, token{tokAmp, "&"})
			i++
		case ch == '=':
			toks = append(toks, token{tokAssign, "="})
			i++
		case ch == '"' || ch == '\'':
			quote := ch
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			toks = append(toks, token{tokString, string(runes[i : j+1])})
			i = j + 1
		case unicode.IsDigit(ch) || ((ch == '+' || ch == '-') && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			j := i + 1
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			// Optional exponent: e or E, optional sign, digits.
			if j < len(runes) && (runes[j] == 'e' || runes[j] == 'E') {
				k := j + 1
				if k < len(runes) && (runes[k] == '+' || runes[k] == '-') {
					k++
				}
				if k < len(runes) && unicode.IsDigit(runes[k]) {
					for k < len(runes) && unicode.IsDigit(runes[k]) {
						k++
					}
					j = k
				}
			}
			toks = append(toks, token{tokNumber, string(runes[i:j])})
			i = j
		case unicode.IsLetter(ch) || ch == '_':
			j := i + 1
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			text := string(runes[i:j])
			if text == "const" {
				toks = append(toks, token{tokConst, text})
			} else {
				toks = append(toks, token{tokIdent, text})
			}
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", string(ch))
		}
	}
	return toks, nil
}

// statement is one ';'-terminated unit of input with its starting line.
type statement struct {
	text string
	line int
}

// splitStatements breaks source text into statements. Line comments ("//")
// and blank lines are dropped; a statement may span lines and is terminated
// by ';'. Trailing text without a terminator still forms a statement.
func splitStatements(src string) []statement {
	var stmts []statement
	var buf strings.Builder
	start := 0 // 1-based line of the first buffered content

	write := func(seg string, lineNo int) {
		if start == 0 && strings.TrimSpace(seg) != "" {
			start = lineNo
		}
		buf.WriteString(seg)
	}
	flush := func() {
		if text := strings.TrimSpace(buf.String()); text != "" {
			stmts = append(stmts, statement{text: text, line: start})
		}
		buf.Reset()
		start = 0
	}

	for i, line := range strings.Split(src, "\n") {
		// Comment and terminator handling must skip quoted text, or a "//"
		// or ';' inside a string literal would cut the statement short.
		runes := []rune(line)
		var quote rune
		seg := 0
		for j := 0; j < len(runes); j++ {
			ch := runes[j]
			switch {
			case quote != 0:
				if ch == quote {
					quote = 0
				}
			case ch == '"' || ch == '\'':
				quote = ch
			case ch == '/' && j+1 < len(runes) && runes[j+1] == '/':
				runes = runes[:j]
			case ch == ';':
				write(string(runes[seg:j]), i+1)
				flush()
				seg = j + 1
			}
		}
		write(string(runes[seg:]), i+1)
		buf.WriteString(" ")
	}
	flush()
	return stmts
}
