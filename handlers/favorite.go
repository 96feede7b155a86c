package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/middleware"
	"github.com/jocoker/cse340/models"
)

const (
	msgSaved          = "Saved to your vehicles."
	msgRemoved        = "Removed from your saved vehicles."
	msgNoSuchVehicle  = "Vehicle not found."
	msgSaveFailed     = "Could not save vehicle."
	msgRemoveFailed   = "Could not remove vehicle."
	msgFavoritesError = "Could not load your saved vehicles."

	favoritesPath = "/account/favorites"
)

// BuildFavorites lists the logged-in account's saved vehicles.
func (h *Handler) BuildFavorites(c *gin.Context) {
	id := middleware.SessionFrom(c).AccountID()
	favs, err := h.store.FavoritesByAccount(c.Request.Context(), id)
	if err != nil {
		middleware.Logf(c, "list favorites for %d: %v", id, err)
		h.errorPage(c, http.StatusInternalServerError, "Error", msgFavoritesError)
		return
	}
	h.render(c, http.StatusOK, "account/favorites", "My Saved Vehicles", gin.H{
		"favorites": favs,
	})
}

// SaveFavorite records a vehicle for the account. Saving twice is fine.
func (h *Handler) SaveFavorite(c *gin.Context) {
	vehicleID, ok := h.favoriteTarget(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	accountID := middleware.SessionFrom(c).AccountID()

	if _, err := h.store.VehicleByID(ctx, vehicleID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			h.flash(c, msgNoSuchVehicle)
		} else {
			middleware.Logf(c, "save favorite: %v", err)
			h.flash(c, msgSaveFailed)
		}
		redirectBack(c, favoritesPath)
		return
	}

	if err := h.store.SaveFavorite(ctx, accountID, vehicleID); err != nil {
		middleware.Logf(c, "save favorite: %v", err)
		h.flash(c, msgSaveFailed)
		redirectBack(c, favoritesPath)
		return
	}
	h.flash(c, msgSaved)
	redirectBack(c, favoritesPath)
}

// RemoveFavorite forgets a saved vehicle. Removing a missing one is fine.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	vehicleID, ok := h.favoriteTarget(c)
	if !ok {
		return
	}
	accountID := middleware.SessionFrom(c).AccountID()

	if err := h.store.RemoveFavorite(c.Request.Context(), accountID, vehicleID); err != nil {
		middleware.Logf(c, "remove favorite: %v", err)
		h.flash(c, msgRemoveFailed)
		redirectBack(c, favoritesPath)
		return
	}
	h.flash(c, msgRemoved)
	redirectBack(c, favoritesPath)
}

func (h *Handler) favoriteTarget(c *gin.Context) (uint, bool) {
	var form favoriteForm
	_ = c.ShouldBind(&form)
	id, ok := parseID(form.InvID)
	if h.forms.check(form, nil) != nil || !ok {
		h.flash(c, msgInvalidVehicle)
		redirectBack(c, favoritesPath)
		return 0, false
	}
	return id, true
}
