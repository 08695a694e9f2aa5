// Package parser splits a shell input line into the flat token stream the
// job list builder consumes.
package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind identifies the syntactic role of a token.
type Kind int

const (
	Word Kind = iota
	Pipe
	And
	Or
	Sequence
	Background
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Pipe:
		return "|"
	case And:
		return "&&"
	case Or:
		return "||"
	case Sequence:
		return ";"
	case Background:
		return "&"
	case Redirect:
		return "redirection"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexical unit. Text holds the unquoted word for Word tokens and
// the operator ("<", ">", "2>") for Redirect tokens.
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

func (t Token) String() string {
	if t.Kind == Word || t.Kind == Redirect {
		return t.Text
	}
	return t.Kind.String()
}

var shellLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Or", Pattern: `\|\|`}, // before Pipe
	{Name: "Pipe", Pattern: `\|`},
	{Name: "And", Pattern: `&&`}, // before Background
	{Name: "Semicolon", Pattern: `;`},
	{Name: "Redirect", Pattern: `2>|>|<`}, // order matters
	{Name: "Background", Pattern: `&`},
	{Name: "Word", Pattern: `(?:[^\s|><&'";]|'[^']*'|"[^"]*")+`},
})

var kinds = func() map[lexer.TokenType]Kind {
	symbols := shellLexer.Symbols()
	return map[lexer.TokenType]Kind{
		symbols["Or"]:         Or,
		symbols["Pipe"]:       Pipe,
		symbols["And"]:        And,
		symbols["Semicolon"]:  Sequence,
		symbols["Redirect"]:   Redirect,
		symbols["Background"]: Background,
		symbols["Word"]:       Word,
	}
}()

var whitespace = shellLexer.Symbols()["Whitespace"]

// Tokenize lexes one input line. Quotes are stripped from words; an
// unterminated quote is an error.
func Tokenize(input string) ([]Token, error) {
	lex, err := shellLexer.LexString("", input)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}

	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		if tok.EOF() || tok.Type == whitespace {
			continue
		}
		kind, ok := kinds[tok.Type]
		if !ok {
			return nil, fmt.Errorf("lex error: unexpected %q at offset %d", tok.Value, tok.Pos.Offset)
		}
		text := tok.Value
		if kind == Word {
			text = unquote(text)
		}
		tokens = append(tokens, Token{Kind: kind, Text: text, Pos: tok.Pos.Offset})
	}
	return tokens, nil
}

// unquote removes the quote characters from a lexed word. The lexer has
// already guaranteed every quote is balanced.
func unquote(word string) string {
	if !strings.ContainsAny(word, `'"`) {
		return word
	}
	var b strings.Builder
	var quote rune
	for _, r := range word {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders tokens back into a single line, used for job descriptions.
func Format(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
		if tok.Kind == Word && (parts[i] == "" || strings.ContainsAny(parts[i], " \t|&;<>")) {
			parts[i] = "'" + parts[i] + "'"
		}
	}
	return strings.Join(parts, " ")
}
