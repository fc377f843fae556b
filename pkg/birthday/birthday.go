package birthday

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"birthday-bot/pkg/db"

	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

// Sender posts plain messages to a channel.
type Sender interface {
	SendMessage(ctx context.Context, channelID snowflake.ID, content string) error
}

// Announcer posts a message for every user whose birthday is today.
type Announcer struct {
	store     db.Store
	sender    Sender
	channelID snowflake.ID
	location  *time.Location
	now       func() time.Time
}

func NewAnnouncer(store db.Store, sender Sender, channelID snowflake.ID, location *time.Location) *Announcer {
	if location == nil {
		location = time.Local
	}
	return &Announcer{
		store:     store,
		sender:    sender,
		channelID: channelID,
		location:  location,
		now:       time.Now,
	}
}

// Announce sends one message per birthday. The first failing send aborts the
// run, the remaining users are not retried until the next run.
func (a *Announcer) Announce(ctx context.Context) error {
	today := db.MonthDay(a.now().In(a.location))
	userIDs, err := a.store.ListBirthdaysMatching(ctx, today)
	if err != nil {
		return fmt.Errorf("cannot list birthdays for %s: %w", today, err)
	}
	slog.Info("birthday: checked birthdays", slog.String("birthday.day", today), slog.Int("birthday.count", len(userIDs)))

	for _, userID := range userIDs {
		if err := a.sender.SendMessage(ctx, a.channelID, Message(userID)); err != nil {
			slog.Error("birthday: error while sending announcement",
				slog.Any("channel.id", a.channelID),
				slog.Any("user.id", userID),
				tint.Err(err))
			return err
		}
	}
	return nil
}

// Message is the announcement posted for userID.
func Message(userID snowflake.ID) string {
	return fmt.Sprintf("Happy birthday, <@%s>!", userID)
}

// NextOccurrence returns the next date, today included, on which the birthday
// falls. A 29th of February is celebrated on the 28th in common years.
func NextOccurrence(birthday time.Time, now time.Time) time.Time {
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	next := occurrenceIn(birthday, year, now.Location())
	if next.Before(today) {
		next = occurrenceIn(birthday, year+1, now.Location())
	}
	return next
}

func occurrenceIn(birthday time.Time, year int, location *time.Location) time.Time {
	month, day := birthday.Month(), birthday.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
