package db

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const (
	DateLayout     = "2006-01-02"
	MonthDayLayout = "01-02"
)

var ErrInvalidDate = errors.New("date must use the YYYY-MM-DD format")

// Birthday is the stored birthday of a single user. Only the month and day are
// used for matching, the year is kept as it was submitted.
type Birthday struct {
	UserID snowflake.ID `db:"user_id"`
	Date   time.Time    `db:"birthday"`
}

func (b Birthday) MonthDay() string {
	return b.Date.Format(MonthDayLayout)
}

// Binding ties a reaction role message to the role granted by reacting with
// its emoji. EmojiID is zero for unicode emoji.
type Binding struct {
	MessageID snowflake.ID `db:"message_id"`
	ChannelID snowflake.ID `db:"channel_id"`
	GuildID   snowflake.ID `db:"guild_id"`
	RoleID    snowflake.ID `db:"role_id"`
	EmojiName string       `db:"emoji_name"`
	EmojiID   snowflake.ID `db:"emoji_id"`
}

// MatchesEmoji reports whether a reaction with the given emoji name and id
// selects this binding. Custom emoji match on either the name or the id, so
// renamed emoji and reactions without a name still match.
func (b Binding) MatchesEmoji(name string, id snowflake.ID) bool {
	if name != "" && name == b.EmojiName {
		return true
	}
	return id != 0 && id == b.EmojiID
}

// Store is implemented by every storage backend. Writes are whole record upserts.
type Store interface {
	GetBirthday(ctx context.Context, userID snowflake.ID) (Birthday, bool, error)
	SetBirthday(ctx context.Context, userID snowflake.ID, date time.Time) error
	DeleteBirthday(ctx context.Context, userID snowflake.ID) (bool, error)
	ListBirthdaysMatching(ctx context.Context, monthDay string) ([]snowflake.ID, error)

	GetBinding(ctx context.Context, messageID snowflake.ID) (Binding, bool, error)
	SetBinding(ctx context.Context, binding Binding) error
	// FindBinding returns the binding of messageID if the emoji matches it, see
	// Binding.MatchesEmoji.
	FindBinding(ctx context.Context, messageID snowflake.ID, emojiName string, emojiID snowflake.ID) (Binding, bool, error)
	DeleteBinding(ctx context.Context, messageID snowflake.ID) (bool, error)

	Close() error
}

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	if len(value) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// MonthDay returns the month-day key of t in t's own location.
func MonthDay(t time.Time) string {
	return t.Format(MonthDayLayout)
}
