package handlers

import (
	"fmt"
	"log/slog"
	"slices"

	"birthday-bot/pkg"
	"birthday-bot/pkg/reactionrole"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

func (h *Handler) HandleCreateReactionRole(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	channel := data.Channel("channel")
	if err := checkPostable(channel.Type); err != nil {
		return err
	}
	req := reactionrole.CreateRequest{
		GuildID:   *event.GuildID(),
		ChannelID: channel.ID,
		RoleID:    data.Role("role").ID,
		Emoji:     data.String("emoji"),
	}
	if text, ok := data.OptString("text"); ok {
		req.Text = text
	}

	if err := event.DeferCreateMessage(true); err != nil {
		return err
	}
	content := errorMessage
	created, err := h.Bot.Roles.Create(h.ctx, req)
	if err != nil {
		slog.Error("roles: error while creating reaction role",
			slog.Any("channel.id", req.ChannelID),
			slog.Any("role.id", req.RoleID),
			slog.String("emoji", req.Emoji),
			tint.Err(err))
	} else {
		content = fmt.Sprintf("Reaction role created in <#%s>: reacting with %s grants <@&%s>. Message ID: `%s`.",
			created.ChannelID, created.Emoji.Mention(), created.RoleID, created.MessageID)
	}
	// the interaction is already acknowledged, a failed update cannot be answered anymore
	if _, err := event.UpdateInteractionResponse(discord.MessageUpdate{
		Content: json.Ptr(content),
	}); err != nil {
		slog.Error("handlers: error while updating a deferred response",
			slog.String("command.name", data.CommandName()),
			slog.Any("channel.id", req.ChannelID),
			tint.Err(err))
	}
	return nil
}

func (h *Handler) HandleRemoveReactionRole(data discord.SlashCommandInteractionData, event *handler.CommandEvent) error {
	messageID, err := snowflake.Parse(data.String("message-id"))
	if err != nil {
		return fmt.Errorf("%w: %w", pkg.ErrInvalidInput, err)
	}
	deleted, err := h.Bot.Roles.Remove(h.ctx, messageID)
	if err != nil {
		return err
	}
	messageCreate := discord.NewMessageCreate().WithEphemeral(true)
	if !deleted {
		return event.CreateMessage(messageCreate.WithContentf("Message `%s` is not a reaction role message.", messageID))
	}
	return event.CreateMessage(messageCreate.WithContentf("Message `%s` no longer grants a role.", messageID))
}

func checkPostable(channelType discord.ChannelType) error {
	if !slices.Contains(postableChannelTypes, channelType) {
		return fmt.Errorf("%w: cannot post reaction roles in channels of type %d", pkg.ErrInvalidInput, channelType)
	}
	return nil
}
