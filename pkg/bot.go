package pkg

import (
	"birthday-bot/pkg/birthday"
	"birthday-bot/pkg/config"
	"birthday-bot/pkg/confirm"
	"birthday-bot/pkg/db"
	"birthday-bot/pkg/eraser"
	"birthday-bot/pkg/platform"
	"birthday-bot/pkg/reactionrole"

	"github.com/disgoorg/disgo/rest"
)

type Bot struct {
	Config    *config.Config
	Store     db.Store
	Platform  *platform.Client
	Announcer *birthday.Announcer
	Eraser    *eraser.Eraser
	Confirm   *confirm.Waiter
	Roles     *reactionrole.Binder
}

// New wires every component on top of the store and the REST client.
func New(cfg *config.Config, store db.Store, r rest.Rest) *Bot {
	client := platform.New(r)
	return &Bot{
		Config:    cfg,
		Store:     store,
		Platform:  client,
		Announcer: birthday.NewAnnouncer(store, client, cfg.BirthdayChannelID, cfg.BirthdayLocation),
		Eraser:    eraser.New(client),
		Confirm:   confirm.NewWaiter(),
		Roles:     reactionrole.NewBinder(store, client),
	}
}
