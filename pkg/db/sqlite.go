package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type birthdayRow struct {
	UserID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Year   int
	Month  int `gorm:"index:idx_birthday_month_day"`
	Day    int `gorm:"index:idx_birthday_month_day"`
}

func (birthdayRow) TableName() string { return "birthdays" }

func (r birthdayRow) toBirthday() Birthday {
	return Birthday{
		UserID: snowflake.ID(r.UserID),
		Date:   time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, time.UTC),
	}
}

type bindingRow struct {
	MessageID uint64 `gorm:"primaryKey;autoIncrement:false"`
	ChannelID uint64
	GuildID   uint64
	RoleID    uint64
	EmojiName string
	EmojiID   uint64
}

func (bindingRow) TableName() string { return "reaction_roles" }

func (r bindingRow) toBinding() Binding {
	return Binding{
		MessageID: snowflake.ID(r.MessageID),
		ChannelID: snowflake.ID(r.ChannelID),
		GuildID:   snowflake.ID(r.GuildID),
		RoleID:    snowflake.ID(r.RoleID),
		EmojiName: r.EmojiName,
		EmojiID:   snowflake.ID(r.EmojiID),
	}
}

// SQLite stores records in a local SQLite file through gorm.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens the database at path and migrates its tables.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	if err := db.AutoMigrate(&birthdayRow{}, &bindingRow{}); err != nil {
		return nil, fmt.Errorf("cannot migrate db: %w", err)
	}
	slog.Info("db: connected to sqlite", slog.String("db.path", path))
	return &SQLite{db: db}, nil
}

func (s *SQLite) GetBirthday(ctx context.Context, userID snowflake.ID) (Birthday, bool, error) {
	var row birthdayRow
	err := s.db.WithContext(ctx).Where(&birthdayRow{UserID: uint64(userID)}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Birthday{}, false, nil
	}
	if err != nil {
		return Birthday{}, false, err
	}
	return row.toBirthday(), true, nil
}

func (s *SQLite) SetBirthday(ctx context.Context, userID snowflake.ID, date time.Time) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"year", "month", "day"}),
	}).Create(&birthdayRow{
		UserID: uint64(userID),
		Year:   date.Year(),
		Month:  int(date.Month()),
		Day:    date.Day(),
	}).Error
}

func (s *SQLite) DeleteBirthday(ctx context.Context, userID snowflake.ID) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&birthdayRow{}, uint64(userID))
	return result.RowsAffected > 0, result.Error
}

func (s *SQLite) ListBirthdaysMatching(ctx context.Context, monthDay string) ([]snowflake.ID, error) {
	date, err := time.Parse(MonthDayLayout, monthDay)
	if err != nil {
		return nil, err
	}
	var rows []birthdayRow
	err = s.db.WithContext(ctx).
		Where(&birthdayRow{Month: int(date.Month()), Day: date.Day()}).
		Order("user_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	userIDs := make([]snowflake.ID, len(rows))
	for i, row := range rows {
		userIDs[i] = snowflake.ID(row.UserID)
	}
	return userIDs, nil
}

func (s *SQLite) GetBinding(ctx context.Context, messageID snowflake.ID) (Binding, bool, error) {
	var row bindingRow
	err := s.db.WithContext(ctx).Where(&bindingRow{MessageID: uint64(messageID)}).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Binding{}, false, nil
	}
	if err != nil {
		return Binding{}, false, err
	}
	return row.toBinding(), true, nil
}

func (s *SQLite) SetBinding(ctx context.Context, binding Binding) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel_id", "guild_id", "role_id", "emoji_name", "emoji_id"}),
	}).Create(&bindingRow{
		MessageID: uint64(binding.MessageID),
		ChannelID: uint64(binding.ChannelID),
		GuildID:   uint64(binding.GuildID),
		RoleID:    uint64(binding.RoleID),
		EmojiName: binding.EmojiName,
		EmojiID:   uint64(binding.EmojiID),
	}).Error
}

func (s *SQLite) FindBinding(ctx context.Context, messageID snowflake.ID, emojiName string, emojiID snowflake.ID) (Binding, bool, error) {
	var row bindingRow
	err := s.db.WithContext(ctx).
		Where("message_id = ? AND ((emoji_name <> '' AND emoji_name = ?) OR (emoji_id <> 0 AND emoji_id = ?))", uint64(messageID), emojiName, uint64(emojiID)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Binding{}, false, nil
	}
	if err != nil {
		return Binding{}, false, err
	}
	return row.toBinding(), true, nil
}

func (s *SQLite) DeleteBinding(ctx context.Context, messageID snowflake.ID) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&bindingRow{}, uint64(messageID))
	return result.RowsAffected > 0, result.Error
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
