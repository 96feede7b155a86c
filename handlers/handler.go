package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/middleware"
	"github.com/jocoker/cse340/models"
)

// Store is what the page handlers need from the database layer.
type Store interface {
	AccountByID(ctx context.Context, id uint) (models.Account, error)

	Classifications(ctx context.Context) ([]models.Classification, error)
	ClassificationByID(ctx context.Context, id uint) (models.Classification, error)
	AddClassification(ctx context.Context, name string) (models.Classification, error)
	VehiclesByClassification(ctx context.Context, classificationID uint) ([]models.Vehicle, error)
	VehicleByID(ctx context.Context, id uint) (models.Vehicle, error)
	AddVehicle(ctx context.Context, v *models.Vehicle) error
	UpdateVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uint) error

	SaveFavorite(ctx context.Context, accountID, vehicleID uint) error
	RemoveFavorite(ctx context.Context, accountID, vehicleID uint) error
	FavoritesByAccount(ctx context.Context, accountID uint) ([]models.Favorite, error)
	IsFavorite(ctx context.Context, accountID, vehicleID uint) (bool, error)
}

type Handler struct {
	store    Store
	accounts *auth.Service
	auth     *middleware.Auth
	forms    *formValidator
}

func New(st Store, accounts *auth.Service, mw *middleware.Auth) (*Handler, error) {
	if st == nil || accounts == nil || mw == nil {
		return nil, fmt.Errorf("handlers: store, account service and auth middleware are required")
	}
	return &Handler{
		store:    st,
		accounts: accounts,
		auth:     mw,
		forms:    newFormValidator(),
	}, nil
}

// render fills the layout data every page shares and writes the page.
// A "notice" set by the caller wins over the one carried in from the
// previous request.
func (h *Handler) render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title

	nav, err := h.store.Classifications(c.Request.Context())
	if err != nil {
		middleware.Logf(c, "build navigation: %v", err)
	}
	data["nav"] = nav

	sess := middleware.SessionFrom(c)
	data["loggedin"] = sess.LoggedIn()
	if sess.LoggedIn() {
		data["account"] = sess.Claims
	}
	if _, ok := data["notice"]; !ok {
		data["notice"] = middleware.NoticeFrom(c)
	}
	c.HTML(status, page, data)
}

func (h *Handler) flash(c *gin.Context, msg string) {
	h.auth.Notices().Flash(c, msg)
}

func (h *Handler) errorPage(c *gin.Context, status int, title, message string) {
	h.render(c, status, "errors/error", title, gin.H{"message": message})
}

// serverError logs err with the request ID and renders the generic 500 page.
func (h *Handler) serverError(c *gin.Context, err error) {
	middleware.Logf(c, "❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	h.errorPage(c, http.StatusInternalServerError, "Server Error", msgServerError)
}

func (h *Handler) notFound(c *gin.Context, title, message string) {
	h.errorPage(c, http.StatusNotFound, title, message)
}

const (
	msgServerError = "Oh no! There was a crash. Maybe try a different route?"
	msgPageMissing = "Sorry, we appear to have lost that page."
)
