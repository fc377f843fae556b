// Package emoji parses the emoji given to reaction role commands.
package emoji

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrInvalid = errors.New("invalid emoji")

	customRegex = regexp.MustCompile(`^<(a?):(\w{2,32}):(\d{15,21})>$`)
	pairRegex   = regexp.MustCompile(`^(\w{2,32}):(\d{15,21})$`)
)

// Emoji is either a unicode emoji (ID is zero) or a custom guild emoji.
type Emoji struct {
	Name     string
	ID       snowflake.ID
	Animated bool
}

// Parse accepts "<:name:id>", "<a:name:id>", "name:id" or a unicode emoji.
func Parse(value string) (Emoji, error) {
	value = strings.TrimSpace(value)
	if m := customRegex.FindStringSubmatch(value); m != nil {
		id, err := snowflake.Parse(m[3])
		if err != nil {
			return Emoji{}, ErrInvalid
		}
		return Emoji{Name: m[2], ID: id, Animated: m[1] == "a"}, nil
	}
	if m := pairRegex.FindStringSubmatch(value); m != nil {
		id, err := snowflake.Parse(m[2])
		if err != nil {
			return Emoji{}, ErrInvalid
		}
		return Emoji{Name: m[1], ID: id}, nil
	}
	if !isUnicodeEmoji(value) {
		return Emoji{}, ErrInvalid
	}
	return Emoji{Name: value}, nil
}

func (e Emoji) Custom() bool {
	return e.ID != 0
}

// Reaction is the form the REST API expects when adding a reaction.
func (e Emoji) Reaction() string {
	if e.Custom() {
		return e.Name + ":" + e.ID.String()
	}
	return e.Name
}

// Mention renders the emoji inside message content.
func (e Emoji) Mention() string {
	if !e.Custom() {
		return e.Name
	}
	if e.Animated {
		return "<a:" + e.Name + ":" + e.ID.String() + ">"
	}
	return "<:" + e.Name + ":" + e.ID.String() + ">"
}

// isUnicodeEmoji is a loose check: a short string with at least one non ascii
// rune and no ascii letters or whitespace. Discord rejects anything else when
// the reaction is added.
func isUnicodeEmoji(value string) bool {
	if value == "" || utf8.RuneCountInString(value) > 16 {
		return false
	}
	nonASCII := false
	for _, r := range value {
		switch {
		case r >= utf8.RuneSelf:
			nonASCII = true
		case unicode.IsLetter(r), unicode.IsSpace(r):
			return false
		}
	}
	return nonASCII
}
