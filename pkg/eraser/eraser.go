package eraser

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

const (
	// PageSize is the largest history page the platform returns.
	PageSize = 100
	// Pause between two deletes in the same channel.
	Pause = 1100 * time.Millisecond
	// MaxAge is the oldest message the eraser will touch.
	MaxAge = 14 * 24 * time.Hour
)

var ErrChannelBusy = errors.New("an erase is already running in this channel")

// MessageService is the part of the platform client the eraser needs.
type MessageService interface {
	GetMessages(ctx context.Context, channelID snowflake.ID, before snowflake.ID, limit int) ([]discord.Message, error)
	DeleteMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error
}

type Request struct {
	ChannelID snowflake.ID
	// Limit is the number of messages to delete, 0 deletes everything reachable.
	Limit int
	// AuthorID restricts deletion to a single author when set.
	AuthorID snowflake.ID
	// Before starts the history walk strictly before this message when set.
	Before snowflake.ID
}

type Eraser struct {
	messages MessageService
	pause    time.Duration
	now      func() time.Time
	wait     func(ctx context.Context, d time.Duration) error

	mu   sync.Mutex
	busy map[snowflake.ID]struct{}
}

func New(messages MessageService) *Eraser {
	return &Eraser{
		messages: messages,
		pause:    Pause,
		now:      time.Now,
		wait:     sleep,
		busy:     map[snowflake.ID]struct{}{},
	}
}

// Reservation marks a channel as being erased until Release is called.
type Reservation struct {
	eraser    *Eraser
	channelID snowflake.ID
	once      sync.Once
}

// Reserve claims channelID for a single erase run.
func (e *Eraser) Reserve(channelID snowflake.ID) (*Reservation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.busy[channelID]; ok {
		return nil, ErrChannelBusy
	}
	e.busy[channelID] = struct{}{}
	return &Reservation{eraser: e, channelID: channelID}, nil
}

func (r *Reservation) Release() {
	r.once.Do(func() {
		r.eraser.mu.Lock()
		delete(r.eraser.busy, r.channelID)
		r.eraser.mu.Unlock()
	})
}

// Erase runs req on the reserved channel. The channel in req is ignored.
func (r *Reservation) Erase(ctx context.Context, req Request) (int, error) {
	req.ChannelID = r.channelID
	return r.eraser.run(ctx, req)
}

// Erase reserves the channel, runs req and releases the channel again.
func (e *Eraser) Erase(ctx context.Context, req Request) (int, error) {
	reservation, err := e.Reserve(req.ChannelID)
	if err != nil {
		return 0, err
	}
	defer reservation.Release()
	return reservation.Erase(ctx, req)
}

func (e *Eraser) run(ctx context.Context, req Request) (int, error) {
	logger := slog.With(slog.String("erase.id", uuid.NewString()), slog.Any("channel.id", req.ChannelID))
	logger.Info("eraser: starting", slog.Int("erase.limit", req.Limit), slog.Any("author.id", req.AuthorID))

	var (
		deleted   int
		attempted bool
		cursor    = req.Before
		horizon   = e.now().Add(-MaxAge)
	)
	remaining := func() bool { return req.Limit == 0 || deleted < req.Limit }

	for remaining() {
		page, err := e.messages.GetMessages(ctx, req.ChannelID, cursor, PageSize)
		if err != nil {
			logger.Error("eraser: error while fetching messages", slog.Int("erase.deleted", deleted), tint.Err(err))
			return deleted, err
		}
		if len(page) == 0 {
			break
		}

		for _, msg := range page {
			if !remaining() {
				break
			}
			if req.AuthorID != 0 && msg.Author.ID != req.AuthorID {
				continue
			}
			if msg.ID.Time().Before(horizon) {
				continue
			}
			if attempted {
				if err := e.wait(ctx, e.pause); err != nil {
					logger.Info("eraser: cancelled", slog.Int("erase.deleted", deleted))
					return deleted, err
				}
			}
			attempted = true
			if err := e.messages.DeleteMessage(ctx, req.ChannelID, msg.ID); err != nil {
				logger.Warn("eraser: error while deleting message", slog.Any("message.id", msg.ID), tint.Err(err))
				continue
			}
			deleted++
		}

		oldest := page[len(page)-1].ID
		if len(page) < PageSize || oldest.Time().Before(horizon) {
			break
		}
		cursor = oldest
	}

	logger.Info("eraser: finished", slog.Int("erase.deleted", deleted))
	return deleted, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
