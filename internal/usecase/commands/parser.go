package commands

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tagSeparator is the U+E0000 tag codepoint some clients (Chatterino) append
// to a line so that repeated messages are not dropped by Twitch.
const tagSeparator = '\U000E0000'

var (
	ErrMissingPrefix  = errors.New("commands: missing prefix in message")
	ErrMissingCommand = errors.New("commands: missing command in message")
)

// Invocation is a chat line split into prefix, command and arguments.
type Invocation struct {
	Prefix    rune
	Command   string
	Arguments []string
}

// Parse reads a chat line as `<prefix><command> [arguments...]`.
//
// The prefix is the first rune, which must be a symbol: text starting with a
// letter, a digit or whitespace is not a command. Tokens are separated by
// whitespace or by the tag codepoint, which never ends up inside a token.
func Parse(text string) (Invocation, error) {
	prefix, size := utf8.DecodeRuneInString(text)
	if size == 0 || !ValidPrefix(prefix) {
		return Invocation{}, ErrMissingPrefix
	}

	tokens := strings.FieldsFunc(text[size:], isSeparator)
	if len(tokens) == 0 {
		return Invocation{}, ErrMissingCommand
	}

	return Invocation{
		Prefix:    prefix,
		Command:   tokens[0],
		Arguments: tokens[1:],
	}, nil
}

func isSeparator(r rune) bool {
	return r == tagSeparator || unicode.IsSpace(r)
}

// ValidPrefix reports whether r can start a command. Letters, digits,
// whitespace and the tag codepoint cannot.
func ValidPrefix(r rune) bool {
	if r == utf8.RuneError || r == tagSeparator {
		return false
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}
