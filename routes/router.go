package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/config"
	"github.com/jocoker/cse340/handlers"
	"github.com/jocoker/cse340/middleware"
	"github.com/jocoker/cse340/store"
	"github.com/jocoker/cse340/views"
	"gorm.io/gorm"
)

// NewRouter wires the store, auth service, middleware and pages onto a gin
// engine.
func NewRouter(cfg config.Config, db *gorm.DB) (*gin.Engine, error) {
	st, err := store.New(db, cfg.QueryTimeout)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenIssuer(cfg.TokenSecret, auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	accounts, err := auth.NewService(st, auth.NewBcryptHasher(), tokens)
	if err != nil {
		return nil, err
	}

	secure := !cfg.IsDevelopment()
	notices, err := middleware.NewNotices(cfg.TokenSecret, secure)
	if err != nil {
		return nil, err
	}
	mw, err := middleware.NewAuth(tokens, notices, secure)
	if err != nil {
		return nil, err
	}
	h, err := handlers.New(st, accounts, mw)
	if err != nil {
		return nil, err
	}

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(
		middleware.RequestID(),
		gin.Logger(),
		gin.CustomRecovery(h.Recovery),
		mw.CheckJWTToken(),
		notices.Load(),
	)
	SetupRoutes(r, h, mw)
	return r, nil
}
