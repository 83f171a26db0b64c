package routes

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/giannis84/favorites-admin/internal/auth"
	"github.com/giannis84/favorites-admin/internal/config"
	"github.com/giannis84/favorites-admin/internal/database"
	"github.com/giannis84/favorites-admin/internal/handlers"
	"github.com/giannis84/favorites-admin/internal/logging"
	"github.com/giannis84/favorites-admin/internal/messages"
	"github.com/giannis84/favorites-admin/internal/session"
	"github.com/giannis84/favorites-admin/internal/templates"
)

// FavoritesPath is where the favorites controller is mounted.
const FavoritesPath = "/admin/favorites"

// RegisterFavoritesRoutes sets up the admin routes.
// HTTP concerns are handled here, while business logic is delegated to the handlers package.
func RegisterFavoritesRoutes(c *FavoritesController, authConfig auth.AuthConfig, rateLimit config.RateLimitConfig) func(r chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, FavoritesPath, http.StatusFound)
		})
		r.Route("/admin", func(r chi.Router) {
			if rateLimit.Requests > 0 {
				r.Use(httprate.LimitByIP(rateLimit.Requests, rateLimit.Window))
			}
			r.Use(auth.JWTMiddleware(authConfig, auth.FavoritesManagementRight))
			r.Use(c.sessions.Middleware)

			r.Get("/favorites", c.dispatch)
			r.Post("/favorites", c.dispatch)
			r.Get("/message", c.showMessage)
		})
	}
}

// FavoritesController serves the favorites administration pages. Requests
// select an action with the "action" parameter or a page with "view".
type FavoritesController struct {
	repo         database.FavoritesRepository
	sessions     *session.Manager
	catalog      *messages.Catalog
	renderer     *templates.Renderer
	itemsPerPage int

	views   map[string]viewFunc
	actions map[string]actionFunc
}

// request carries what every view and action works with.
type request struct {
	*http.Request
	session   *session.Session
	localizer *messages.Localizer
}

// view is the outcome of a view: the page to render and its model.
type view struct {
	template string
	titleKey string
	model    map[string]any
}

type viewFunc func(req *request) (*view, error)

// actionFunc processes a submitted form and returns the URL to redirect to.
type actionFunc func(req *request) (string, error)

func NewFavoritesController(repo database.FavoritesRepository, sessions *session.Manager, catalog *messages.Catalog, renderer *templates.Renderer, itemsPerPage int) *FavoritesController {
	c := &FavoritesController{
		repo:         repo,
		sessions:     sessions,
		catalog:      catalog,
		renderer:     renderer,
		itemsPerPage: itemsPerPage,
	}
	c.views = map[string]viewFunc{
		viewManageFavorites: c.manageFavorites,
		viewCreateFavorite:  c.createFavoriteForm,
		viewModifyFavorite:  c.modifyFavoriteForm,
	}
	c.actions = map[string]actionFunc{
		actionCreateFavorite:           c.createFavorite,
		actionModifyFavorite:           c.modifyFavorite,
		actionConfirmRemoveFavorite:    c.confirmRemoveFavorite,
		actionRemoveFavorite:           c.removeFavorite,
		actionToggleActivationFavorite: c.toggleActivationFavorite,
	}
	return c
}

func (c *FavoritesController) newRequest(r *http.Request) (*request, error) {
	s := session.FromContext(r.Context())
	if s == nil {
		return nil, session.ErrNoSession
	}
	return &request{
		Request:   r,
		session:   s,
		localizer: c.catalog.Localizer(r.Header.Get("Accept-Language")),
	}, nil
}

func (c *FavoritesController) dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		c.handleError(w, r, &handlers.RequestError{Param: "form", Err: err})
		return
	}
	req, err := c.newRequest(r)
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	if name := r.Form.Get(paramAction); name != "" {
		if action, ok := c.actions[name]; ok {
			logging.Log(ctx).Layer("routes").Op(name).User(auth.UserIDFromContext(ctx)).Session(req.session.ID).
				Info("received favorites action")

			target, err := action(req)
			if err != nil {
				c.handleError(w, r, err)
				return
			}
			if err := c.sessions.Save(ctx); err != nil {
				c.handleError(w, r, err)
				return
			}
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		logging.Log(ctx).Layer("routes").Str("action", name).Warn("unknown action, falling back to view")
	}

	name := r.Form.Get(paramView)
	render, ok := c.views[name]
	if !ok {
		name, render = viewManageFavorites, c.views[viewManageFavorites]
	}

	v, err := render(req)
	if err != nil {
		c.handleError(w, r, err)
		return
	}
	c.renderView(w, req, http.StatusOK, v)

	logging.Log(ctx).Layer("routes").Op(name).Session(req.session.ID).Int("status_code", http.StatusOK).
		Debug("favorites view rendered")
}

// renderView flushes the pending notices and field errors into the page and
// writes it. The session is only persisted once the page has rendered, so a
// failed render keeps the notices for the next page.
func (c *FavoritesController) renderView(w http.ResponseWriter, req *request, status int, v *view) {
	data := req.session.Data

	infos := data.TakeInfos()
	page := templates.Page{
		Title:      req.localizer.Get(v.titleKey),
		Locale:     req.localizer.Locale(),
		Infos:      make([]string, 0, len(infos)),
		Errors:     data.TakeErrors(),
		Model:      v.model,
		Translator: req.localizer,
	}
	for _, key := range infos {
		page.Infos = append(page.Infos, req.localizer.Get(key))
	}

	body, err := c.renderer.Execute(v.template, page)
	if err != nil {
		c.handleError(w, req.Request, err)
		return
	}
	if err := c.sessions.Save(req.Context()); err != nil {
		c.handleError(w, req.Request, err)
		return
	}
	if err := templates.Write(w, status, body); err != nil {
		logging.Log(req.Context()).Layer("routes").Err(err).Warn("failed to write page")
	}
}

// showMessage displays the pending admin message, or goes back to the list
// when there is none.
func (c *FavoritesController) showMessage(w http.ResponseWriter, r *http.Request) {
	req, err := c.newRequest(r)
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	msg := req.session.Data.Message
	if msg == nil {
		http.Redirect(w, r, FavoritesPath, http.StatusFound)
		return
	}

	c.renderView(w, req, http.StatusOK, &view{
		template: templates.AdminMessage,
		titleKey: titleAdminMessage,
		model:    map[string]any{markMessage: msg},
	})
}

// handleError is the error boundary of the admin pages: malformed requests
// are 400, unknown favorites 404 and everything else 500.
func (c *FavoritesController) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status, messageKey := http.StatusInternalServerError, "portal.util.message.internalError"

	var reqErr *handlers.RequestError
	switch {
	case errors.As(err, &reqErr):
		status, messageKey = http.StatusBadRequest, "portal.util.message.badRequest"
		logging.Log(ctx).Layer("routes").Err(err).Warn("malformed request")
	case errors.Is(err, database.ErrNotFound):
		status, messageKey = http.StatusNotFound, "portal.util.message.notFound"
		logging.Log(ctx).Layer("routes").Err(err).Warn("favorite not found")
	default:
		logging.Log(ctx).Layer("routes").User(auth.UserIDFromContext(ctx)).Err(err).Error("failed to serve favorites request")
	}

	localizer := c.catalog.Localizer(r.Header.Get("Accept-Language"))
	page := templates.Page{
		Title:      localizer.Get("portal.util.message.errorTitle"),
		Locale:     localizer.Locale(),
		Model:      map[string]any{"error_message": localizer.Get(messageKey)},
		Translator: localizer,
	}
	if renderErr := c.renderer.Render(w, status, templates.Error, page); renderErr != nil {
		logging.Log(ctx).Layer("routes").Err(renderErr).Error("failed to render error page")
		http.Error(w, http.StatusText(status), status)
	}
}

func viewURL(name string, id int) string {
	q := url.Values{paramView: {name}}
	if id != 0 {
		q.Set(paramID, strconv.Itoa(id))
	}
	return FavoritesPath + "?" + q.Encode()
}
