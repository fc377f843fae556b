package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"birthday-bot/pkg"
	"birthday-bot/pkg/birthday"
	"birthday-bot/pkg/db"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/dustin/go-humanize"
)

const displayLayout = "January 2"

func (h *Handler) HandleSetBirthday(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	date, err := db.ParseDate(data.String("date"))
	if err != nil {
		return fmt.Errorf("%w: %w", pkg.ErrInvalidInput, err)
	}
	userID := targetUserID(data, event.User().ID)
	if err := h.Bot.Store.SetBirthday(h.ctx, userID, date); err != nil {
		return err
	}
	slog.Info("birthday: stored birthday", slog.Any("user.id", userID), slog.String("birthday.day", db.MonthDay(date)))
	return event.CreateMessage(discord.NewMessageCreate().
		WithContentf("Birthday of <@%s> set to **%s**.", userID, date.Format(displayLayout)).
		WithEphemeral(true))
}

func (h *Handler) HandleBirthday(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	userID := targetUserID(data, event.User().ID)
	stored, ok, err := h.Bot.Store.GetBirthday(h.ctx, userID)
	if err != nil {
		return err
	}
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	if !ok {
		return event.CreateMessage(messageCreate.WithContentf("No birthday is stored for <@%s>.", userID))
	}
	return event.CreateMessage(messageCreate.WithContent(describeBirthday(userID, stored.Date, time.Now().In(h.Bot.Config.BirthdayLocation))))
}

func (h *Handler) HandleForgetBirthday(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	userID := targetUserID(data, event.User().ID)
	deleted, err := h.Bot.Store.DeleteBirthday(h.ctx, userID)
	if err != nil {
		return err
	}
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	if !deleted {
		return event.CreateMessage(messageCreate.WithContentf("No birthday is stored for <@%s>.", userID))
	}
	slog.Info("birthday: deleted birthday", slog.Any("user.id", userID))
	return event.CreateMessage(messageCreate.WithContentf("Birthday of <@%s> has been forgotten.", userID))
}

func describeBirthday(userID snowflake.ID, date time.Time, now time.Time) string {
	next := birthday.NextOccurrence(date, now)
	if db.MonthDay(next) == db.MonthDay(now) {
		return fmt.Sprintf("The birthday of <@%s> is **%s**, that's today!", userID, date.Format(displayLayout))
	}
	return fmt.Sprintf("The birthday of <@%s> is **%s**, next one %s.", userID, date.Format(displayLayout), humanize.RelTime(next, now, "ago", "from now"))
}

func targetUserID(data discord.SlashCommandInteractionData, callerID snowflake.ID) snowflake.ID {
	if user, ok := data.OptUser("user"); ok {
		return user.ID
	}
	return callerID
}
