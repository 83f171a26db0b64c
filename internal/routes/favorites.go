package routes

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/giannis84/favorites-admin/internal/database"
	"github.com/giannis84/favorites-admin/internal/handlers"
	"github.com/giannis84/favorites-admin/internal/logging"
	"github.com/giannis84/favorites-admin/internal/messages"
	"github.com/giannis84/favorites-admin/internal/models"
	"github.com/giannis84/favorites-admin/internal/paginator"
	"github.com/giannis84/favorites-admin/internal/session"
	"github.com/giannis84/favorites-admin/internal/templates"
)

// Request parameters
const (
	paramView   = "view"
	paramAction = "action"
	paramID     = "id"
)

// Views
const (
	viewManageFavorites = "manageFavorites"
	viewCreateFavorite  = "createFavorite"
	viewModifyFavorite  = "modifyFavorite"
)

// Actions
const (
	actionCreateFavorite           = "createFavorite"
	actionModifyFavorite           = "modifyFavorite"
	actionRemoveFavorite           = "removeFavorite"
	actionConfirmRemoveFavorite    = "confirmRemoveFavorite"
	actionToggleActivationFavorite = "toggleActivationFavorite"
)

// Page titles
const (
	titleManageFavorites = "module.mydashboard.favorites.manage_favorites.pageTitle"
	titleCreateFavorite  = "module.mydashboard.favorites.create_favorite.pageTitle"
	titleModifyFavorite  = "module.mydashboard.favorites.modify_favorite.pageTitle"
	titleAdminMessage    = "portal.admin.message.title"
)

// Notices and confirmations
const (
	infoFavoriteCreated          = "module.mydashboard.favorites.info.favorite.created"
	infoFavoriteUpdated          = "module.mydashboard.favorites.info.favorite.updated"
	infoFavoriteRemoved          = "module.mydashboard.favorites.info.favorite.removed"
	messageConfirmRemoveFavorite = "module.mydashboard.favorites.message.confirmRemoveFavorite"
)

// Model markers
const (
	markFavoriteList = "favorite_list"
	markFavorite     = "favorite"
	markPaginator    = "paginator"
	markItemsPerPage = "nb_items_per_page"
	markMessage      = "message"
)

// manageFavorites lists the favorites, one page at a time. Entering the list
// ends any create or modify in progress.
func (c *FavoritesController) manageFavorites(req *request) (*view, error) {
	data := req.session.Data
	data.Favorite = nil
	data.Message = nil

	favorites, err := handlers.ListFavorites(req.Context(), c.repo)
	if err != nil {
		return nil, err
	}

	itemsPerPage := paginator.ItemsPerPage(req.Form.Get(paginator.ParamItemsPerPage), data.ItemsPerPage, c.itemsPerPage)
	data.ItemsPerPage = itemsPerPage
	pager := paginator.New(favorites, paginator.PageIndex(req.Form.Get(paginator.ParamPageIndex)), itemsPerPage, FavoritesPath)

	return &view{
		template: templates.ManageFavorites,
		titleKey: titleManageFavorites,
		model: map[string]any{
			markFavoriteList: pager.Items,
			markPaginator:    pager,
			markItemsPerPage: strconv.Itoa(itemsPerPage),
		},
	}, nil
}

// createFavoriteForm shows the create form. A draft left by a rejected
// submission is shown again so the entered values are not lost.
func (c *FavoritesController) createFavoriteForm(req *request) (*view, error) {
	return &view{
		template: templates.CreateFavorite,
		titleKey: titleCreateFavorite,
		model:    map[string]any{markFavorite: createDraft(req.session.Data)},
	}, nil
}

// modifyFavoriteForm shows the modify form, loading the favorite unless the
// session already holds a draft of that same favorite.
func (c *FavoritesController) modifyFavoriteForm(req *request) (*view, error) {
	favorite, err := c.modifyDraft(req)
	if err != nil {
		return nil, err
	}
	return &view{
		template: templates.ModifyFavorite,
		titleKey: titleModifyFavorite,
		model:    map[string]any{markFavorite: favorite},
	}, nil
}

func (c *FavoritesController) createFavorite(req *request) (string, error) {
	favorite := createDraft(req.session.Data)
	if err := favorite.Bind(req.Form); err != nil {
		return "", &handlers.RequestError{Param: "form", Err: err}
	}

	err := handlers.CreateFavorite(req.Context(), c.repo, favorite, req.localizer)
	if rejected(req, err) {
		return viewURL(viewCreateFavorite, 0), nil
	}
	if err != nil {
		return "", err
	}

	req.session.Data.AddInfo(infoFavoriteCreated)
	return FavoritesPath, nil
}

func (c *FavoritesController) modifyFavorite(req *request) (string, error) {
	favorite, err := c.modifyDraft(req)
	if err != nil {
		return "", err
	}
	if err := favorite.Bind(req.Form); err != nil {
		return "", &handlers.RequestError{Param: "form", Err: err}
	}

	err = handlers.UpdateFavorite(req.Context(), c.repo, favorite, req.localizer)
	if rejected(req, err) {
		return viewURL(viewModifyFavorite, favorite.ID), nil
	}
	if err != nil {
		return "", err
	}

	req.session.Data.AddInfo(infoFavoriteUpdated)
	return FavoritesPath, nil
}

// confirmRemoveFavorite asks for a confirmation before removing; the
// confirmation page posts back to the remove action.
func (c *FavoritesController) confirmRemoveFavorite(req *request) (string, error) {
	id, err := handlers.ParseID(req.Form.Get(paramID))
	if err != nil {
		return "", err
	}

	params := url.Values{
		paramAction: {actionRemoveFavorite},
		paramID:     {strconv.Itoa(id)},
	}
	req.session.Data.Message = messages.NewConfirmation(messageConfirmRemoveFavorite, FavoritesPath, params, FavoritesPath)
	return messages.MessageURL(), nil
}

// removeFavorite deletes the favorite. Removing an already deleted favorite
// is not an error so a resubmitted confirmation lands on the list.
func (c *FavoritesController) removeFavorite(req *request) (string, error) {
	ctx := req.Context()
	id, err := handlers.ParseID(req.Form.Get(paramID))
	if err != nil {
		return "", err
	}

	err = handlers.RemoveFavorite(ctx, c.repo, id)
	if errors.Is(err, database.ErrNotFound) {
		logging.Log(ctx).Layer("routes").Op(actionRemoveFavorite).Favorite(id).Warn("favorite already removed")
	} else if err != nil {
		return "", err
	}

	req.session.Data.AddInfo(infoFavoriteRemoved)
	return FavoritesPath, nil
}

// toggleActivationFavorite works on the stored favorite, never on the draft.
func (c *FavoritesController) toggleActivationFavorite(req *request) (string, error) {
	id, err := handlers.ParseID(req.Form.Get(paramID))
	if err != nil {
		return "", err
	}
	if _, err := handlers.ToggleActivation(req.Context(), c.repo, id); err != nil {
		return "", err
	}

	req.session.Data.AddInfo(infoFavoriteUpdated)
	return FavoritesPath, nil
}

// createDraft returns the session's create draft, starting a blank one when
// the session holds none or holds an already stored favorite.
func createDraft(data *session.Data) *models.Favorite {
	if data.Favorite == nil || data.Favorite.ID != 0 {
		data.Favorite = &models.Favorite{}
	}
	return data.Favorite
}

// modifyDraft returns the session's draft of the favorite named by the id
// parameter, loading it from the store when the session holds another one.
func (c *FavoritesController) modifyDraft(req *request) (*models.Favorite, error) {
	id, err := handlers.ParseID(req.Form.Get(paramID))
	if err != nil {
		return nil, err
	}

	data := req.session.Data
	if data.Favorite == nil || data.Favorite.ID != id {
		favorite, err := c.repo.GetFavorite(req.Context(), id)
		if err != nil {
			return nil, err
		}
		data.Favorite = favorite
	}
	return data.Favorite, nil
}

// rejected records the field errors of a failed validation in the session.
func rejected(req *request, err error) bool {
	var valErr *handlers.ValidationError
	if !errors.As(err, &valErr) {
		return false
	}
	req.session.Data.Errors = valErr.Errors
	logging.Log(req.Context()).Layer("routes").Session(req.session.ID).Int("field_errors", len(valErr.Errors)).
		Info("favorite rejected by validation")
	return true
}
