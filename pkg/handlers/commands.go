package handlers

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"birthday-bot/pkg"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const errorMessage = "There was an error while handling the command."

func NewHandler(ctx context.Context, b *pkg.Bot) *Handler {
	mux := handler.New()
	mux.Error(func(e *handler.InteractionEvent, err error) {
		attrs := []any{slog.String("error.kind", errorKind(err)), tint.Err(err)}
		if i, ok := e.Interaction.(discord.ApplicationCommandInteraction); ok {
			attrs = append(attrs, slog.String("command.name", i.Data.CommandName()))
		}
		if errors.Is(err, pkg.ErrUnauthorized) || errors.Is(err, pkg.ErrInvalidInput) || errors.Is(err, pkg.ErrChannelBusy) {
			slog.Warn("handlers: command rejected", attrs...)
		} else {
			slog.Error("handlers: error while handling a command", attrs...)
		}
		_ = e.Respond(discord.InteractionResponseTypeCreateMessage, discord.NewMessageCreate().
			WithContent(errorMessage).
			WithEphemeral(true))
	})
	handlers := &Handler{
		Bot:    b,
		ctx:    ctx,
		Router: mux,
	}
	for name, command := range handlers.commands() {
		handlers.SlashCommand("/"+name, command)
	}
	return handlers
}

type Handler struct {
	Bot *pkg.Bot
	ctx context.Context
	handler.Router
}

// commands lists every routed slash command, each behind the trusted role.
func (h *Handler) commands() map[string]handler.SlashCommandHandler {
	return map[string]handler.SlashCommandHandler{
		"set-birthday":         h.trusted(h.HandleSetBirthday),
		"birthday":             h.trusted(h.HandleBirthday),
		"forget-birthday":      h.trusted(h.HandleForgetBirthday),
		"clear-messages":       h.trusted(h.HandleClearMessages),
		"create-reaction-role": h.trusted(h.HandleCreateReactionRole),
		"remove-reaction-role": h.trusted(h.HandleRemoveReactionRole),
	}
}

func (h *Handler) trusted(next handler.SlashCommandHandler) handler.SlashCommandHandler {
	return func(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
		if err := authorize(event.Member(), h.Bot.Config.TrustedRoleID); err != nil {
			return err
		}
		return next(data, event)
	}
}

func authorize(member *discord.ResolvedMember, trustedRoleID snowflake.ID) error {
	if member == nil || !slices.Contains(member.RoleIDs, trustedRoleID) {
		return pkg.ErrUnauthorized
	}
	return nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, pkg.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, pkg.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, pkg.ErrChannelBusy):
		return "channel_busy"
	case errors.Is(err, pkg.ErrConfirmationTimeout):
		return "confirmation_timeout"
	}
	return "internal"
}
