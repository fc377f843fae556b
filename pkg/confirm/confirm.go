// Package confirm lets a command wait for its caller to type a confirmation
// token in the channel the command was used in.
package confirm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

const Token = "confirm"

var ErrTimeout = errors.New("no confirmation received in time")

type key struct {
	channelID snowflake.ID
	userID    snowflake.ID
}

// Waiter hands incoming messages to pending Wait calls.
type Waiter struct {
	mu      sync.Mutex
	pending map[key]chan discord.Message
}

func NewWaiter() *Waiter {
	return &Waiter{pending: map[key]chan discord.Message{}}
}

// Pending is a registered confirmation. Messages offered after Expect are
// kept until Wait or Cancel is called.
type Pending struct {
	waiter *Waiter
	key    key
	ch     chan discord.Message
}

// Expect registers a confirmation for userID in channelID. A newer Expect for
// the same user and channel replaces an older one.
func (w *Waiter) Expect(channelID snowflake.ID, userID snowflake.ID) *Pending {
	p := &Pending{
		waiter: w,
		key:    key{channelID: channelID, userID: userID},
		ch:     make(chan discord.Message, 1),
	}
	w.mu.Lock()
	w.pending[p.key] = p.ch
	w.mu.Unlock()
	return p
}

// Wait blocks until the token arrives, the timeout passes or ctx is done. The
// registration is removed when Wait returns.
func (p *Pending) Wait(ctx context.Context, timeout time.Duration) (discord.Message, error) {
	defer p.Cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-p.ch:
		return msg, nil
	case <-timer.C:
		return discord.Message{}, ErrTimeout
	case <-ctx.Done():
		return discord.Message{}, ctx.Err()
	}
}

func (p *Pending) Cancel() {
	p.waiter.mu.Lock()
	if p.waiter.pending[p.key] == p.ch {
		delete(p.waiter.pending, p.key)
	}
	p.waiter.mu.Unlock()
}

// Wait is Expect followed by Pending.Wait.
func (w *Waiter) Wait(ctx context.Context, channelID snowflake.ID, userID snowflake.ID, timeout time.Duration) (discord.Message, error) {
	return w.Expect(channelID, userID).Wait(ctx, timeout)
}

// Offer reports whether msg confirmed a pending Wait.
func (w *Waiter) Offer(msg discord.Message) bool {
	if !IsToken(msg.Content) {
		return false
	}
	k := key{channelID: msg.ChannelID, userID: msg.Author.ID}

	w.mu.Lock()
	ch, ok := w.pending[k]
	if ok {
		delete(w.pending, k)
	}
	w.mu.Unlock()
	if !ok {
		return false
	}

	ch <- msg
	return true
}

func IsToken(content string) bool {
	return strings.EqualFold(strings.TrimSpace(content), Token)
}
