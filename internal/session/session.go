// Package session holds the signed-in state of the client and notifies
// interested components when it changes.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoSession is returned by operations that need an active session.
var ErrNoSession = errors.New("no active session")

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated user context issued by the backend.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        User
}

// Authenticator is the backend side of sign-in and sign-out.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Listener is called with the new session, or nil after sign-out.
type Listener func(*Session)

// Context is the injected session holder. It is safe for concurrent use.
type Context struct {
	auth   Authenticator
	logger *zap.Logger

	mu        sync.Mutex
	current   *Session
	listeners map[uint64]Listener
	order     []uint64
	nextID    uint64
}

func NewContext(auth Authenticator, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		auth:      auth,
		logger:    logger,
		listeners: make(map[uint64]Listener),
	}
}

// Current returns the active session or nil.
func (c *Context) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	s := *c.current
	return &s
}

// Subscription is a registered listener. Unsubscribe releases it and may be
// called more than once.
type Subscription struct {
	ctx  *Context
	id   uint64
	once sync.Once
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.ctx.remove(s.id) })
}

// Subscribe registers fn for session changes until the returned
// subscription is released.
func (c *Context) Subscribe(fn Listener) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.order = append(c.order, id)
	return &Subscription{ctx: c, id: id}
}

// Listeners returns the number of registered listeners.
func (c *Context) Listeners() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

func (c *Context) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listeners, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// SignUp creates the account and signs in with it.
func (c *Context) SignUp(ctx context.Context, email, password string) error {
	if err := c.auth.SignUp(ctx, email, password); err != nil {
		return err
	}
	return c.SignIn(ctx, email, password)
}

func (c *Context) SignIn(ctx context.Context, email, password string) error {
	s, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	c.logger.Info("signed in", zap.String("user_id", s.User.ID))
	c.set(s)
	return nil
}

// SignOut revokes the session remotely and clears it locally. The local
// session is cleared even when the remote call fails.
func (c *Context) SignOut(ctx context.Context) error {
	s := c.Current()
	if s == nil {
		return ErrNoSession
	}
	err := c.auth.SignOut(ctx, s.AccessToken)
	if err != nil {
		c.logger.Warn("remote sign out failed", zap.String("user_id", s.User.ID), zap.Error(err))
	}
	c.set(nil)
	return err
}

func (c *Context) set(s *Session) {
	c.mu.Lock()
	c.current = s
	listeners := make([]Listener, 0, len(c.order))
	for _, id := range c.order {
		listeners = append(listeners, c.listeners[id])
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		if s == nil {
			fn(nil)
			continue
		}
		cp := *s
		fn(&cp)
	}
}
