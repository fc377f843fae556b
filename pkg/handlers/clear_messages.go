package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"birthday-bot/pkg"
	"birthday-bot/pkg/confirm"
	"birthday-bot/pkg/eraser"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const confirmTimeout = 15 * time.Second

func (h *Handler) HandleClearMessages(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	count, hasCount := data.OptInt("count")
	all, _ := data.OptBool("all")
	limit, err := eraseLimit(count, hasCount, all)
	if err != nil {
		return err
	}
	req := eraser.Request{
		ChannelID: event.Channel().ID(),
		Limit:     limit,
	}
	if user, ok := data.OptUser("user"); ok {
		req.AuthorID = user.ID
	}

	reservation, err := h.Bot.Eraser.Reserve(req.ChannelID)
	if err != nil {
		return err
	}
	userID := event.User().ID
	// registered before the prompt so a fast confirmation is not missed
	pending := h.Bot.Confirm.Expect(req.ChannelID, userID)
	if err := event.CreateMessage(discord.NewMessageCreate().
		WithContentf("Type `%s` in this channel within %d seconds to delete %s.", confirm.Token, int(confirmTimeout.Seconds()), describeErase(req)).
		WithEphemeral(true)); err != nil {
		pending.Cancel()
		reservation.Release()
		return err
	}

	go h.clearMessages(event, reservation, pending, req, userID)
	return nil
}

func (h *Handler) clearMessages(event *handler.CommandEvent, reservation *eraser.Reservation, pending *confirm.Pending, req eraser.Request, userID snowflake.ID) {
	defer reservation.Release()

	confirmation, err := pending.Wait(h.ctx, confirmTimeout)
	if err != nil {
		slog.Info("eraser: erase not confirmed", slog.Any("channel.id", req.ChannelID), slog.Any("user.id", userID), tint.Err(err))
		h.followUp(event, "No confirmation received, nothing was deleted.")
		return
	}
	if err := h.Bot.Platform.DeleteMessage(h.ctx, req.ChannelID, confirmation.ID); err != nil {
		slog.Warn("eraser: error while deleting the confirmation", slog.Any("channel.id", req.ChannelID), slog.Any("message.id", confirmation.ID), tint.Err(err))
	}
	req.Before = confirmation.ID

	deleted, err := reservation.Erase(h.ctx, req)
	if err != nil {
		slog.Error("eraser: error while erasing messages", slog.Any("channel.id", req.ChannelID), slog.Int("erase.deleted", deleted), tint.Err(err))
		h.followUp(event, errorMessage)
		return
	}
	h.followUp(event, fmt.Sprintf("Deleted %d messages.", deleted))
}

func (h *Handler) followUp(event *handler.CommandEvent, content string) {
	if _, err := event.CreateFollowupMessage(discord.NewMessageCreate().WithContent(content).WithEphemeral(true)); err != nil {
		slog.Error("handlers: error while sending a follow-up", tint.Err(err))
	}
}

// eraseLimit turns the command options into an eraser limit, 0 meaning all.
func eraseLimit(count int, hasCount bool, all bool) (int, error) {
	switch {
	case hasCount && all:
		return 0, fmt.Errorf("%w: count and all are mutually exclusive", pkg.ErrInvalidInput)
	case all:
		return 0, nil
	case hasCount && count >= 1:
		return count, nil
	case hasCount:
		return 0, fmt.Errorf("%w: count must be at least 1", pkg.ErrInvalidInput)
	}
	return 0, fmt.Errorf("%w: either count or all is required", pkg.ErrInvalidInput)
}

func describeErase(req eraser.Request) string {
	what := "all messages"
	if req.Limit > 0 {
		what = fmt.Sprintf("the last %d messages", req.Limit)
	}
	if req.AuthorID != 0 {
		what += fmt.Sprintf(" of <@%s>", req.AuthorID)
	}
	return what
}
