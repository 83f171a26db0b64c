// Package session keeps the per-browser edit slot of the favorites
// administration pages between requests.
package session

import (
	"context"
	"errors"

	"github.com/giannis84/favorites-admin/internal/handlers"
	"github.com/giannis84/favorites-admin/internal/messages"
	"github.com/giannis84/favorites-admin/internal/models"
)

// ErrNoSession is returned when a request context carries no session.
var ErrNoSession = errors.New("no session in context")

// Data is the state kept for one browser session.
type Data struct {
	// Favorite is the draft being created or edited, if any.
	Favorite *models.Favorite `json:"favorite,omitempty"`
	// Infos are message keys of notices not yet displayed.
	Infos []string `json:"infos,omitempty"`
	// Errors are the field errors of the last rejected submission.
	Errors       []handlers.FieldError  `json:"errors,omitempty"`
	Message      *messages.AdminMessage `json:"message,omitempty"`
	ItemsPerPage int                    `json:"items_per_page,omitempty"`
}

// Clone returns a deep copy of the data, or nil for a nil receiver.
func (d *Data) Clone() *Data {
	if d == nil {
		return nil
	}
	c := &Data{
		Favorite:     d.Favorite.Clone(),
		ItemsPerPage: d.ItemsPerPage,
	}
	if d.Infos != nil {
		c.Infos = append([]string(nil), d.Infos...)
	}
	if d.Errors != nil {
		c.Errors = append([]handlers.FieldError(nil), d.Errors...)
	}
	if d.Message != nil {
		m := *d.Message
		c.Message = &m
	}
	return c
}

// AddInfo queues a notice for the next rendered page.
func (d *Data) AddInfo(key string) {
	d.Infos = append(d.Infos, key)
}

// TakeInfos returns the pending notices and clears them.
func (d *Data) TakeInfos() []string {
	infos := d.Infos
	d.Infos = nil
	return infos
}

// TakeErrors returns the pending field errors and clears them.
func (d *Data) TakeErrors() []handlers.FieldError {
	errs := d.Errors
	d.Errors = nil
	return errs
}

// Store persists session data by session id.
type Store interface {
	// Load returns nil data and no error when the session is unknown or expired.
	Load(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data) error
	Delete(ctx context.Context, id string) error
}

// Session binds loaded data to its id for the duration of a request.
type Session struct {
	ID   string
	Data *Data
}

type contextKey struct{}

// NewContext returns a context carrying the session.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session, or nil if there is none.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
