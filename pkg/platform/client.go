// Package platform adapts the disgo REST client to the small interfaces the
// bot's components depend on.
package platform

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

// Rest is the subset of rest.Rest used by Client.
type Rest interface {
	rest.Channels
	rest.Members
}

type Client struct {
	rest Rest
}

func New(r Rest) *Client {
	return &Client{rest: r}
}

func (c *Client) SendMessage(ctx context.Context, channelID snowflake.ID, content string) error {
	_, err := c.CreateMessage(ctx, channelID, discord.NewMessageCreate().WithContent(content))
	return err
}

func (c *Client) CreateMessage(ctx context.Context, channelID snowflake.ID, messageCreate discord.MessageCreate) (*discord.Message, error) {
	message, err := c.rest.CreateMessage(channelID, messageCreate, rest.WithCtx(ctx))
	if err != nil {
		slog.Error("platform: error while sending a message", slog.Any("channel.id", channelID), tint.Err(err))
		return nil, err
	}
	return message, nil
}

// GetMessages returns up to limit messages older than before, newest first.
// A zero before starts at the latest message.
func (c *Client) GetMessages(ctx context.Context, channelID snowflake.ID, before snowflake.ID, limit int) ([]discord.Message, error) {
	return c.rest.GetMessages(channelID, 0, before, 0, limit, rest.WithCtx(ctx))
}

func (c *Client) DeleteMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error {
	return c.rest.DeleteMessage(channelID, messageID, rest.WithCtx(ctx))
}

func (c *Client) AddReaction(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, emoji string) error {
	return c.rest.AddReaction(channelID, messageID, emoji, rest.WithCtx(ctx))
}

func (c *Client) AddMemberRole(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID) error {
	return c.rest.AddMemberRole(guildID, userID, roleID, rest.WithCtx(ctx))
}

func (c *Client) RemoveMemberRole(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID) error {
	return c.rest.RemoveMemberRole(guildID, userID, roleID, rest.WithCtx(ctx))
}
