package handlers

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
)

// Commands are synced to the configured guild on startup.
var Commands = []discord.ApplicationCommandCreate{
	discord.SlashCommandCreate{
		Name:        "set-birthday",
		Description: "Stores the birthday of a user",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "date",
				Description: "The birthday in the YYYY-MM-DD format",
				Required:    true,
				MinLength:   json.Ptr(10),
				MaxLength:   json.Ptr(10),
			},
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "The user to store the birthday for, defaults to you",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "birthday",
		Description: "Shows the stored birthday of a user",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "The user to look up, defaults to you",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "forget-birthday",
		Description: "Deletes the stored birthday of a user",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "The user to forget, defaults to you",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "clear-messages",
		Description: "Deletes messages in this channel",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionInt{
				Name:        "count",
				Description: "How many messages to delete",
				MinValue:    json.Ptr(1),
			},
			discord.ApplicationCommandOptionBool{
				Name:        "all",
				Description: "Delete every message younger than 14 days",
			},
			discord.ApplicationCommandOptionUser{
				Name:        "user",
				Description: "Only delete messages of this user",
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "create-reaction-role",
		Description: "Posts a message that grants a role to everyone reacting to it",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "emoji",
				Description: "The emoji to react with",
				Required:    true,
			},
			discord.ApplicationCommandOptionRole{
				Name:        "role",
				Description: "The role to grant",
				Required:    true,
			},
			discord.ApplicationCommandOptionChannel{
				Name:         "channel",
				Description:  "The channel to post the message in",
				Required:     true,
				ChannelTypes: postableChannelTypes,
			},
			discord.ApplicationCommandOptionString{
				Name:        "text",
				Description: "The message text",
				MaxLength:   json.Ptr(4096),
			},
		},
	},
	discord.SlashCommandCreate{
		Name:        "remove-reaction-role",
		Description: "Stops a reaction role message from granting its role",
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "message-id",
				Description: "The ID of the reaction role message",
				Required:    true,
			},
		},
	},
}

var postableChannelTypes = []discord.ChannelType{discord.ChannelTypeGuildText, discord.ChannelTypeGuildNews}
