// Favorite model definitions and methods

package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/form/v4"
)

var formDecoder = form.NewDecoder()

// Favorite is a link an administrator publishes to the dashboard.
// ID is 0 until the store assigns one on create.
type Favorite struct {
	ID          int    `json:"id"           form:"-"`
	Label       string `json:"label"        form:"label"     validate:"required,max=255"`
	URL         string `json:"url"          form:"url"       validate:"required,max=255,url"`
	RemoteID    string `json:"remote_id"    form:"remote_id" validate:"max=255"`
	IsDefault   bool   `json:"is_default"   form:"is_default"`
	IsActivated bool   `json:"is_activated" form:"-"`
}

// Clone returns a copy of the favorite, or nil for a nil receiver.
func (f *Favorite) Clone() *Favorite {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// Bind decodes the submitted form onto the favorite by matching the `form`
// struct tag. Fields tagged "-" are never bound and absent text fields keep
// their value. An absent checkbox unbinds IsDefault, following HTML checkbox
// semantics.
func (f *Favorite) Bind(values url.Values) error {
	f.IsDefault = false
	if err := formDecoder.Decode(f, values); err != nil {
		return fmt.Errorf("decoding favorite form: %w", err)
	}
	f.Label = strings.TrimSpace(f.Label)
	f.URL = strings.TrimSpace(f.URL)
	f.RemoteID = strings.TrimSpace(f.RemoteID)
	return nil
}
