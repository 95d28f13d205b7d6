// Package minify shrinks stylesheet text by dropping comments and collapsing
// insignificant whitespace. It does not rewrite values or selectors.
package minify

import (
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Minifier is a pure stylesheet text transform.
type Minifier interface {
	Minify(content string) (string, error)
}

// MinifierFunc adapts a function to the Minifier interface.
type MinifierFunc func(string) (string, error)

// Minify calls f(content).
func (f MinifierFunc) Minify(content string) (string, error) {
	return f(content)
}

// Default is the lexer-based minifier.
var Default Minifier = MinifierFunc(String)

// String minifies content. Running it on its own output returns the output
// unchanged.
func String(content string) (string, error) {
	lexer := css.NewLexer(parse.NewInputString(content))

	var (
		b           strings.Builder
		prev        css.TokenType = css.ErrorToken
		prevText    string
		space       bool
		semicolon   bool
		wroteOutput bool
	)

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				return content, fmt.Errorf("minify: %w", err)
			}
			break
		}

		switch tt {
		case css.WhitespaceToken:
			space = true
			continue
		case css.CommentToken:
			// /*! ... */ comments are kept (license headers).
			if !strings.HasPrefix(string(text), "/*!") {
				space = true
				continue
			}
		case css.SemicolonToken:
			// Hold it: a semicolon right before } or another ; is dropped.
			semicolon = true
			space = false
			continue
		}

		if semicolon {
			semicolon = false
			if tt != css.RightBraceToken {
				b.WriteByte(';')
				prev, prevText = css.SemicolonToken, ";"
			}
		}

		if space && wroteOutput && keepSpace(prev, prevText, tt, string(text)) {
			b.WriteByte(' ')
		}
		space = false

		b.Write(text)
		prev, prevText = tt, string(text)
		wroteOutput = true
	}

	if semicolon && wroteOutput {
		b.WriteByte(';')
	}

	return b.String(), nil
}

// keepSpace reports whether whitespace between two tokens carries meaning.
func keepSpace(prev css.TokenType, prevText string, next css.TokenType, nextText string) bool {
	switch prev {
	case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken,
		css.CommaToken, css.ColonToken, css.LeftParenthesisToken,
		css.FunctionToken:
		return false
	case css.DelimToken:
		if prevText == ">" {
			return false
		}
	}

	switch next {
	case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken,
		css.CommaToken, css.RightParenthesisToken:
		return false
	case css.DelimToken:
		if nextText == ">" {
			return false
		}
	}

	return true
}
