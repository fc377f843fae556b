package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"birthday-bot/pkg"
	"birthday-bot/pkg/config"
	"birthday-bot/pkg/db"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	trustedRoleID snowflake.ID = 42
	callerID      snowflake.ID = 7
)

// recordingRest records every REST call, anything it does not implement
// panics on the nil embedded interface.
type recordingRest struct {
	rest.Rest

	calls     []string
	updateErr error
}

func (r *recordingRest) CreateMessage(channelID snowflake.ID, _ discord.MessageCreate, _ ...rest.RequestOpt) (*discord.Message, error) {
	r.calls = append(r.calls, "create-message")
	return &discord.Message{ID: 700, ChannelID: channelID}, nil
}

func (r *recordingRest) GetMessages(snowflake.ID, snowflake.ID, snowflake.ID, snowflake.ID, int, ...rest.RequestOpt) ([]discord.Message, error) {
	r.calls = append(r.calls, "get-messages")
	return nil, nil
}

func (r *recordingRest) DeleteMessage(snowflake.ID, snowflake.ID, ...rest.RequestOpt) error {
	r.calls = append(r.calls, "delete-message")
	return nil
}

func (r *recordingRest) AddReaction(snowflake.ID, snowflake.ID, string, ...rest.RequestOpt) error {
	r.calls = append(r.calls, "add-reaction")
	return nil
}

func (r *recordingRest) AddMemberRole(snowflake.ID, snowflake.ID, snowflake.ID, ...rest.RequestOpt) error {
	r.calls = append(r.calls, "add-member-role")
	return nil
}

func (r *recordingRest) RemoveMemberRole(snowflake.ID, snowflake.ID, snowflake.ID, ...rest.RequestOpt) error {
	r.calls = append(r.calls, "remove-member-role")
	return nil
}

func (r *recordingRest) UpdateInteractionResponse(snowflake.ID, string, discord.MessageUpdate, ...rest.RequestOpt) (*discord.Message, error) {
	r.calls = append(r.calls, "update-interaction-response")
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return &discord.Message{ID: 701}, nil
}

// commandOptions holds the options of every command. resolvedPayload carries
// the channel, role and user they point at.
var commandOptions = map[string]string{
	"set-birthday":         `[{"name":"date","type":3,"value":"2000-01-15"},{"name":"user","type":6,"value":"8"}]`,
	"birthday":             `[{"name":"user","type":6,"value":"8"}]`,
	"forget-birthday":      `[{"name":"user","type":6,"value":"8"}]`,
	"clear-messages":       `[{"name":"all","type":5,"value":true}]`,
	"create-reaction-role": `[{"name":"channel","type":7,"value":"20"},{"name":"role","type":8,"value":"30"},{"name":"emoji","type":3,"value":"🎉"}]`,
	"remove-reaction-role": `[{"name":"message-id","type":3,"value":"500"}]`,
}

const resolvedPayload = `{
	"channels": {"20": {"id": "20", "name": "general", "type": 0, "permissions": "0"}},
	"roles": {"30": {"id": "30", "name": "party", "permissions": "0"}},
	"users": {"8": {"id": "8", "username": "friend"}}
}`

// commandEvent builds a guild slash command event sent by a member with the
// given roles. Every interaction response is counted in responses.
func commandEvent(client *bot.Client, name string, responses *int, roles ...snowflake.ID) (discord.SlashCommandInteractionData, *handler.CommandEvent) {
	roleIDs, err := json.Marshal(roles)
	Expect(err).ToNot(HaveOccurred())
	if roles == nil {
		roleIDs = []byte("[]")
	}
	payload := fmt.Sprintf(`{
		"id": "1000",
		"type": 2,
		"application_id": "1",
		"token": "token",
		"version": 1,
		"guild_id": "10",
		"member": {
			"user": {"id": "%d", "username": "caller"},
			"roles": %s,
			"joined_at": "2024-01-01T00:00:00Z",
			"permissions": "0"
		},
		"data": {"id": "2000", "name": %q, "type": 1, "options": %s, "resolved": %s}
	}`, callerID, roleIDs, name, commandOptions[name], resolvedPayload)

	var interaction discord.ApplicationCommandInteraction
	Expect(json.Unmarshal([]byte(payload), &interaction)).To(Succeed())

	event := &handler.CommandEvent{
		ApplicationCommandInteractionCreate: &events.ApplicationCommandInteractionCreate{
			GenericEvent:                  events.NewGenericEvent(client, 0, 0),
			ApplicationCommandInteraction: interaction,
			Respond: func(discord.InteractionResponseType, discord.InteractionResponseData, ...rest.RequestOpt) error {
				*responses++
				return nil
			},
		},
		Ctx: context.Background(),
	}
	return interaction.SlashCommandInteractionData(), event
}

var _ = Describe("Handler commands", func() {
	var (
		ctx       context.Context
		store     *db.JSONFile
		fake      *recordingRest
		client    *bot.Client
		handlers  *Handler
		responses int
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		store, err = db.OpenJSONFile(filepath.Join(GinkgoT().TempDir(), "store.json"))
		Expect(err).ToNot(HaveOccurred())
		fake = &recordingRest{}
		client = &bot.Client{ApplicationID: 1, Rest: fake}
		cfg := &config.Config{
			TrustedRoleID:     trustedRoleID,
			BirthdayChannelID: 20,
			BirthdayLocation:  time.UTC,
		}
		handlers = NewHandler(ctx, pkg.New(cfg, store, fake))
		responses = 0

		Expect(store.SetBirthday(ctx, 8, time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC))).To(Succeed())
		Expect(store.SetBinding(ctx, db.Binding{MessageID: 500, ChannelID: 20, GuildID: 10, RoleID: 30, EmojiName: "👍"})).To(Succeed())
	})

	It("routes every registered command", func() {
		var names []string
		for _, command := range Commands {
			names = append(names, command.CommandName())
		}
		Expect(handlers.commands()).To(HaveLen(len(names)))
		for _, name := range names {
			Expect(handlers.commands()).To(HaveKey(name))
		}
	})

	DescribeTable("rejects members without the trusted role before doing anything",
		func(name string, roles ...snowflake.ID) {
			command, ok := handlers.commands()[name]
			Expect(ok).To(BeTrue())
			data, event := commandEvent(client, name, &responses, roles...)

			Expect(command(data, event)).To(MatchError(pkg.ErrUnauthorized))

			Expect(responses).To(BeZero())
			Expect(fake.calls).To(BeEmpty())

			stored, ok, err := store.GetBirthday(ctx, 8)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(stored.Date).To(Equal(time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC)))
			_, ok, err = store.GetBirthday(ctx, callerID)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())

			binding, ok, err := store.GetBinding(ctx, 500)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(binding.RoleID).To(Equal(snowflake.ID(30)))

			reservation, err := handlers.Bot.Eraser.Reserve(20)
			Expect(err).ToNot(HaveOccurred())
			reservation.Release()
		},
		Entry("set-birthday", "set-birthday"),
		Entry("birthday", "birthday", snowflake.ID(99)),
		Entry("forget-birthday", "forget-birthday"),
		Entry("clear-messages", "clear-messages", snowflake.ID(99)),
		Entry("create-reaction-role", "create-reaction-role"),
		Entry("remove-reaction-role", "remove-reaction-role", snowflake.ID(99)),
	)

	It("runs the command for a trusted member", func() {
		data, event := commandEvent(client, "forget-birthday", &responses, snowflake.ID(99), trustedRoleID)

		Expect(handlers.commands()["forget-birthday"](data, event)).To(Succeed())

		Expect(responses).To(Equal(1))
		_, ok, err := store.GetBirthday(ctx, 8)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("does not fail an acknowledged command when its response cannot be updated", func() {
		fake.updateErr = errors.New("unknown webhook")
		data, event := commandEvent(client, "create-reaction-role", &responses, trustedRoleID)

		Expect(handlers.commands()["create-reaction-role"](data, event)).To(Succeed())

		Expect(responses).To(Equal(1))
		Expect(fake.calls).To(Equal([]string{"create-message", "add-reaction", "update-interaction-response"}))
		binding, ok, err := store.GetBinding(ctx, 700)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(binding.RoleID).To(Equal(snowflake.ID(30)))
		Expect(binding.EmojiName).To(Equal("🎉"))
	})
})
