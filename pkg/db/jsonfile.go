package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/schollz/jsonstore"
)

const (
	birthdayKeyPrefix = "birthday:"
	bindingKeyPrefix  = "binding:"
)

var birthdayKeyRegex = regexp.MustCompile(`^birthday:`)

type birthdayEntry struct {
	Date string `json:"date"`
}

// JSONFile keeps every record in a single JSON file which is rewritten after
// each change.
type JSONFile struct {
	mu   sync.Mutex
	ks   *jsonstore.JSONStore
	path string
}

// OpenJSONFile loads the store at path, creating an empty one if the file does
// not exist yet.
func OpenJSONFile(path string) (*JSONFile, error) {
	ks, err := jsonstore.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		ks = new(jsonstore.JSONStore)
		if err := jsonstore.Save(ks, path); err != nil {
			return nil, fmt.Errorf("cannot create store: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("cannot open store: %w", err)
	}
	slog.Info("db: opened json store", slog.String("db.path", path))
	return &JSONFile{ks: ks, path: path}, nil
}

func (f *JSONFile) GetBirthday(_ context.Context, userID snowflake.ID) (Birthday, bool, error) {
	var entry birthdayEntry
	if ok, err := f.get(birthdayKeyPrefix+userID.String(), &entry); !ok || err != nil {
		return Birthday{}, false, err
	}
	date, err := time.Parse(DateLayout, entry.Date)
	if err != nil {
		return Birthday{}, false, err
	}
	return Birthday{UserID: userID, Date: date}, true, nil
}

func (f *JSONFile) SetBirthday(_ context.Context, userID snowflake.ID, date time.Time) error {
	return f.set(birthdayKeyPrefix+userID.String(), birthdayEntry{Date: date.Format(DateLayout)})
}

func (f *JSONFile) DeleteBirthday(_ context.Context, userID snowflake.ID) (bool, error) {
	return f.delete(birthdayKeyPrefix + userID.String())
}

func (f *JSONFile) ListBirthdaysMatching(_ context.Context, monthDay string) ([]snowflake.ID, error) {
	var userIDs []snowflake.ID
	for key, raw := range f.ks.GetAll(birthdayKeyRegex) {
		var entry birthdayEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, err
		}
		date, err := time.Parse(DateLayout, entry.Date)
		if err != nil {
			return nil, err
		}
		if MonthDay(date) != monthDay {
			continue
		}
		userID, err := snowflake.Parse(key[len(birthdayKeyPrefix):])
		if err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	slices.Sort(userIDs)
	return userIDs, nil
}

func (f *JSONFile) GetBinding(_ context.Context, messageID snowflake.ID) (Binding, bool, error) {
	var binding Binding
	ok, err := f.get(bindingKeyPrefix+messageID.String(), &binding)
	return binding, ok, err
}

func (f *JSONFile) SetBinding(_ context.Context, binding Binding) error {
	return f.set(bindingKeyPrefix+binding.MessageID.String(), binding)
}

func (f *JSONFile) FindBinding(ctx context.Context, messageID snowflake.ID, emojiName string, emojiID snowflake.ID) (Binding, bool, error) {
	binding, ok, err := f.GetBinding(ctx, messageID)
	if !ok || err != nil {
		return Binding{}, false, err
	}
	if !binding.MatchesEmoji(emojiName, emojiID) {
		return Binding{}, false, nil
	}
	return binding, true, nil
}

func (f *JSONFile) DeleteBinding(_ context.Context, messageID snowflake.ID) (bool, error) {
	return f.delete(bindingKeyPrefix + messageID.String())
}

func (f *JSONFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return jsonstore.Save(f.ks, f.path)
}

func (f *JSONFile) get(key string, v any) (bool, error) {
	if err := f.ks.Get(key, v); err != nil {
		var noSuchKeyError jsonstore.NoSuchKeyError
		if errors.As(err, &noSuchKeyError) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (f *JSONFile) set(key string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ks.Set(key, v); err != nil {
		return err
	}
	return jsonstore.Save(f.ks, f.path)
}

func (f *JSONFile) delete(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ks.Data[key]; !ok {
		return false, nil
	}
	f.ks.Delete(key)
	return true, jsonstore.Save(f.ks, f.path)
}
