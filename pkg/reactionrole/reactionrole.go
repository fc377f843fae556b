package reactionrole

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"birthday-bot/pkg/db"
	"birthday-bot/pkg/emoji"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const (
	DefaultText = "React to this message to get the role!"
	embedColor  = 0x5865F2
)

// Platform is the part of the platform client the binder needs.
type Platform interface {
	CreateMessage(ctx context.Context, channelID snowflake.ID, messageCreate discord.MessageCreate) (*discord.Message, error)
	AddReaction(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, emoji string) error
	AddMemberRole(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID) error
	RemoveMemberRole(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID) error
}

type CreateRequest struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	RoleID    snowflake.ID
	Emoji     string
	Text      string
}

// Reaction is a reaction add or remove event. EmojiID is nil for unicode emoji.
type Reaction struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	UserID    snowflake.ID
	Bot       bool
	EmojiName string
	EmojiID   *snowflake.ID
}

// Created is a posted reaction role message with the emoji it listens to.
type Created struct {
	db.Binding
	Emoji emoji.Emoji
}

type Binder struct {
	store    db.Store
	platform Platform
	selfID   atomic.Uint64
}

func NewBinder(store db.Store, platform Platform) *Binder {
	return &Binder{store: store, platform: platform}
}

// SetSelfID sets the bot's own user id so its reactions are ignored.
func (b *Binder) SetSelfID(id snowflake.ID) {
	b.selfID.Store(uint64(id))
}

// Create posts a reaction role message, reacts to it and stores the binding.
func (b *Binder) Create(ctx context.Context, req CreateRequest) (Created, error) {
	parsed, err := emoji.Parse(req.Emoji)
	if err != nil {
		return Created{}, err
	}
	text := req.Text
	if text == "" {
		text = DefaultText
	}

	embedBuilder := discord.NewEmbedBuilder()
	embedBuilder.SetColor(embedColor)
	embedBuilder.SetDescription(text)
	message, err := b.platform.CreateMessage(ctx, req.ChannelID, discord.NewMessageCreate().WithEmbeds(embedBuilder.Build()))
	if err != nil {
		return Created{}, fmt.Errorf("cannot post reaction role message: %w", err)
	}
	if err := b.platform.AddReaction(ctx, req.ChannelID, message.ID, parsed.Reaction()); err != nil {
		return Created{}, fmt.Errorf("cannot react to reaction role message: %w", err)
	}

	binding := db.Binding{
		MessageID: message.ID,
		ChannelID: req.ChannelID,
		GuildID:   req.GuildID,
		RoleID:    req.RoleID,
		EmojiName: parsed.Name,
		EmojiID:   parsed.ID,
	}
	if err := b.store.SetBinding(ctx, binding); err != nil {
		return Created{}, fmt.Errorf("cannot store reaction role binding: %w", err)
	}
	slog.Info("roles: created reaction role",
		slog.Any("message.id", binding.MessageID),
		slog.Any("role.id", binding.RoleID),
		slog.String("emoji", parsed.Reaction()))
	return Created{Binding: binding, Emoji: parsed}, nil
}

// HandleAdd grants the bound role. It reports whether a role was granted.
func (b *Binder) HandleAdd(ctx context.Context, reaction Reaction) bool {
	binding, ok := b.lookup(ctx, reaction)
	if !ok {
		return false
	}
	if err := b.platform.AddMemberRole(ctx, binding.GuildID, reaction.UserID, binding.RoleID); err != nil {
		slog.Warn("roles: error while granting role",
			slog.Any("guild.id", binding.GuildID),
			slog.Any("user.id", reaction.UserID),
			slog.Any("role.id", binding.RoleID),
			tint.Err(err))
		return false
	}
	return true
}

// HandleRemove revokes the bound role. It reports whether a role was revoked.
func (b *Binder) HandleRemove(ctx context.Context, reaction Reaction) bool {
	binding, ok := b.lookup(ctx, reaction)
	if !ok {
		return false
	}
	if err := b.platform.RemoveMemberRole(ctx, binding.GuildID, reaction.UserID, binding.RoleID); err != nil {
		slog.Warn("roles: error while revoking role",
			slog.Any("guild.id", binding.GuildID),
			slog.Any("user.id", reaction.UserID),
			slog.Any("role.id", binding.RoleID),
			tint.Err(err))
		return false
	}
	return true
}

// Remove deletes the binding of messageID. The message itself is left alone.
func (b *Binder) Remove(ctx context.Context, messageID snowflake.ID) (bool, error) {
	deleted, err := b.store.DeleteBinding(ctx, messageID)
	if err != nil {
		return false, err
	}
	if deleted {
		slog.Info("roles: removed reaction role", slog.Any("message.id", messageID))
	}
	return deleted, nil
}

func (b *Binder) HandleMessageDeleted(ctx context.Context, messageID snowflake.ID) {
	if _, err := b.Remove(ctx, messageID); err != nil {
		slog.Error("roles: error while removing binding of deleted message", slog.Any("message.id", messageID), tint.Err(err))
	}
}

func (b *Binder) lookup(ctx context.Context, reaction Reaction) (db.Binding, bool) {
	if reaction.Bot || uint64(reaction.UserID) == b.selfID.Load() {
		return db.Binding{}, false
	}
	var emojiID snowflake.ID
	if reaction.EmojiID != nil {
		emojiID = *reaction.EmojiID
	}
	binding, ok, err := b.store.FindBinding(ctx, reaction.MessageID, reaction.EmojiName, emojiID)
	if err != nil {
		slog.Error("roles: error while looking up binding", slog.Any("message.id", reaction.MessageID), tint.Err(err))
		return db.Binding{}, false
	}
	return binding, ok
}
