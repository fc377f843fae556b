package db

import (
	"context"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	selectBirthdayQuery = "SELECT user_id, birthday FROM birthdays WHERE user_id = $1;"
	upsertBirthdayQuery = "INSERT INTO birthdays (user_id, birthday) VALUES ($1, $2) ON CONFLICT(user_id) DO UPDATE SET birthday=excluded.birthday;"
	deleteBirthdayQuery = "DELETE FROM birthdays WHERE user_id = $1;"
	matchBirthdaysQuery = "SELECT user_id FROM birthdays WHERE to_char(birthday, 'MM-DD') = $1 ORDER BY user_id;"
	selectBindingQuery  = "SELECT message_id, channel_id, guild_id, role_id, emoji_name, emoji_id FROM reaction_roles WHERE message_id = $1;"
	findBindingQuery    = "SELECT message_id, channel_id, guild_id, role_id, emoji_name, emoji_id FROM reaction_roles WHERE message_id = $1 AND ((emoji_name <> '' AND emoji_name = $2) OR (emoji_id <> 0 AND emoji_id = $3));"
	upsertBindingQuery  = "INSERT INTO reaction_roles (message_id, channel_id, guild_id, role_id, emoji_name, emoji_id) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT(message_id) DO UPDATE SET channel_id=excluded.channel_id, guild_id=excluded.guild_id, role_id=excluded.role_id, emoji_name=excluded.emoji_name, emoji_id=excluded.emoji_id;"
	deleteBindingQuery  = "DELETE FROM reaction_roles WHERE message_id = $1;"
)

// Postgres stores records in a PostgreSQL database. The schema is created by
// RunMigrations before the store is handed out.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) GetBirthday(ctx context.Context, userID snowflake.ID) (Birthday, bool, error) {
	rows, _ := p.pool.Query(ctx, selectBirthdayQuery, userID)
	return collectOne(pgx.CollectOneRow(rows, pgx.RowToStructByName[Birthday]))
}

func (p *Postgres) SetBirthday(ctx context.Context, userID snowflake.ID, date time.Time) error {
	_, err := p.pool.Exec(ctx, upsertBirthdayQuery, userID, date)
	return err
}

func (p *Postgres) DeleteBirthday(ctx context.Context, userID snowflake.ID) (bool, error) {
	tag, err := p.pool.Exec(ctx, deleteBirthdayQuery, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) ListBirthdaysMatching(ctx context.Context, monthDay string) ([]snowflake.ID, error) {
	rows, _ := p.pool.Query(ctx, matchBirthdaysQuery, monthDay)
	return pgx.CollectRows(rows, pgx.RowTo[snowflake.ID])
}

func (p *Postgres) GetBinding(ctx context.Context, messageID snowflake.ID) (Binding, bool, error) {
	rows, _ := p.pool.Query(ctx, selectBindingQuery, messageID)
	return collectOne(pgx.CollectOneRow(rows, pgx.RowToStructByName[Binding]))
}

func (p *Postgres) SetBinding(ctx context.Context, binding Binding) error {
	_, err := p.pool.Exec(ctx, upsertBindingQuery, binding.MessageID, binding.ChannelID, binding.GuildID, binding.RoleID, binding.EmojiName, binding.EmojiID)
	return err
}

func (p *Postgres) FindBinding(ctx context.Context, messageID snowflake.ID, emojiName string, emojiID snowflake.ID) (Binding, bool, error) {
	rows, _ := p.pool.Query(ctx, findBindingQuery, messageID, emojiName, emojiID)
	return collectOne(pgx.CollectOneRow(rows, pgx.RowToStructByName[Binding]))
}

func (p *Postgres) DeleteBinding(ctx context.Context, messageID snowflake.ID) (bool, error) {
	tag, err := p.pool.Exec(ctx, deleteBindingQuery, messageID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func collectOne[T any](v T, err error) (T, bool, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}
