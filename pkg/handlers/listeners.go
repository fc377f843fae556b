package handlers

import (
	"log/slog"

	"birthday-bot/pkg/reactionrole"

	"github.com/disgoorg/disgo/events"
)

// Listener feeds gateway events to the confirmation waiter and the reaction
// role binder.
func (h *Handler) Listener() *events.ListenerAdapter {
	return &events.ListenerAdapter{
		OnReady: func(ev *events.Ready) {
			h.Bot.Roles.SetSelfID(ev.User.ID)
			slog.Info("handlers: gateway ready", slog.Any("user.id", ev.User.ID), slog.Int("guild.count", len(ev.Guilds)))
		},
		OnGuildMessageCreate: func(ev *events.GuildMessageCreate) {
			if ev.Message.Author.Bot {
				return
			}
			h.Bot.Confirm.Offer(ev.Message)
		},
		OnGuildMessageDelete: func(ev *events.GuildMessageDelete) {
			h.Bot.Roles.HandleMessageDeleted(h.ctx, ev.MessageID)
		},
		OnGuildMessageReactionAdd: func(ev *events.GuildMessageReactionAdd) {
			h.Bot.Roles.HandleAdd(h.ctx, reactionOf(ev.GenericGuildMessageReaction, ev.Member.User.Bot))
		},
		OnGuildMessageReactionRemove: func(ev *events.GuildMessageReactionRemove) {
			h.Bot.Roles.HandleRemove(h.ctx, reactionOf(ev.GenericGuildMessageReaction, false))
		},
	}
}

func reactionOf(ev *events.GenericGuildMessageReaction, bot bool) reactionrole.Reaction {
	reaction := reactionrole.Reaction{
		GuildID:   ev.GuildID,
		ChannelID: ev.ChannelID,
		MessageID: ev.MessageID,
		UserID:    ev.UserID,
		Bot:       bot,
		EmojiID:   ev.Emoji.ID,
	}
	if ev.Emoji.Name != nil {
		reaction.EmojiName = *ev.Emoji.Name
	}
	return reaction
}
