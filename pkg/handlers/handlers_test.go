package handlers

import (
	"fmt"
	"time"

	"birthday-bot/pkg"
	"birthday-bot/pkg/eraser"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("authorize", func() {
	const trusted snowflake.ID = 42

	member := func(roles ...snowflake.ID) *discord.ResolvedMember {
		return &discord.ResolvedMember{Member: discord.Member{RoleIDs: roles}}
	}

	It("lets trusted members through", func() {
		Expect(authorize(member(1, trusted), trusted)).To(Succeed())
	})

	It("rejects everyone else with the same error", func() {
		Expect(authorize(member(1, 2), trusted)).To(MatchError(pkg.ErrUnauthorized))
		Expect(authorize(member(), trusted)).To(MatchError(pkg.ErrUnauthorized))
		Expect(authorize(nil, trusted)).To(MatchError(pkg.ErrUnauthorized))
	})
})

var _ = Describe("eraseLimit", func() {
	DescribeTable("accepts",
		func(count int, hasCount bool, all bool, expected int) {
			Expect(eraseLimit(count, hasCount, all)).To(Equal(expected))
		},
		Entry("a count", 5, true, false, 5),
		Entry("all", 0, false, true, 0),
	)

	DescribeTable("rejects",
		func(count int, hasCount bool, all bool) {
			_, err := eraseLimit(count, hasCount, all)
			Expect(err).To(MatchError(pkg.ErrInvalidInput))
		},
		Entry("no options", 0, false, false),
		Entry("a zero count", 0, true, false),
		Entry("a negative count", -3, true, false),
		Entry("count and all", 5, true, true),
	)
})

var _ = Describe("describeErase", func() {
	It("describes the request", func() {
		Expect(describeErase(eraser.Request{Limit: 5})).To(Equal("the last 5 messages"))
		Expect(describeErase(eraser.Request{AuthorID: 7})).To(Equal("all messages of <@7>"))
	})
})

var _ = Describe("checkPostable", func() {
	It("accepts text and announcement channels", func() {
		Expect(checkPostable(discord.ChannelTypeGuildText)).To(Succeed())
		Expect(checkPostable(discord.ChannelTypeGuildNews)).To(Succeed())
	})

	It("rejects voice channels", func() {
		Expect(checkPostable(discord.ChannelTypeGuildVoice)).To(MatchError(pkg.ErrInvalidInput))
	})
})

var _ = Describe("describeBirthday", func() {
	birthday := time.Date(1990, 3, 4, 0, 0, 0, 0, time.UTC)

	It("points out birthdays happening today", func() {
		now := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
		Expect(describeBirthday(1, birthday, now)).To(Equal("The birthday of <@1> is **March 4**, that's today!"))
	})

	It("tells how far away the next birthday is", func() {
		now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		Expect(describeBirthday(1, birthday, now)).To(Equal("The birthday of <@1> is **March 4**, next one 3 days from now."))
	})
})

var _ = Describe("errorKind", func() {
	It("classifies wrapped errors", func() {
		Expect(errorKind(fmt.Errorf("%w: bad date", pkg.ErrInvalidInput))).To(Equal("invalid_input"))
		Expect(errorKind(pkg.ErrUnauthorized)).To(Equal("unauthorized"))
		Expect(errorKind(eraser.ErrChannelBusy)).To(Equal("channel_busy"))
		Expect(errorKind(fmt.Errorf("boom"))).To(Equal("internal"))
	})
})

var _ = Describe("reactionOf", func() {
	It("copies the emoji name and id", func() {
		name := "party"
		id := snowflake.ID(123)
		reaction := reactionOf(&events.GenericGuildMessageReaction{
			GuildID:   1,
			ChannelID: 2,
			MessageID: 3,
			UserID:    4,
			Emoji:     discord.PartialEmoji{Name: &name, ID: &id},
		}, true)

		Expect(reaction.EmojiName).To(Equal("party"))
		Expect(reaction.EmojiID).To(Equal(&id))
		Expect(reaction.Bot).To(BeTrue())
		Expect(reaction.MessageID).To(Equal(snowflake.ID(3)))
	})
})

var _ = Describe("Commands", func() {
	It("registers every routed command once", func() {
		var names []string
		for _, command := range Commands {
			names = append(names, command.CommandName())
		}
		Expect(names).To(ConsistOf(
			"set-birthday",
			"birthday",
			"forget-birthday",
			"clear-messages",
			"create-reaction-role",
			"remove-reaction-role",
		))
	})
})
