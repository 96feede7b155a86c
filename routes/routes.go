package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/handlers"
	"github.com/jocoker/cse340/middleware"
	"github.com/jocoker/cse340/views"
)

// SetupRoutes mounts static files, every page and the 404/500 handlers.
func SetupRoutes(r *gin.Engine, h *handlers.Handler, mw *middleware.Auth) {
	static := http.FS(views.Static())
	r.GET("/css/*filepath", staticDir(static))
	r.GET("/js/*filepath", staticDir(static))

	r.NoRoute(h.NotFound)

	// ── Public routes ──────────────────────────────────────────────
	r.GET("/", h.Home)

	account := r.Group("/account")
	{
		account.GET("/login", h.BuildLogin)
		account.POST("/login", h.Login)
		account.GET("/register", h.BuildRegister)
		account.POST("/register", h.Register)
		account.GET("/logout", h.Logout)
	}

	inv := r.Group("/inv")
	{
		inv.GET("/type/:classificationId", h.BuildByClassification)
		inv.GET("/detail/:invId", h.BuildDetail)
		inv.GET("/getInventory/:classification_id", h.GetInventoryJSON)
		inv.GET("/error-test", h.ErrorTest)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/")
	authed.Use(mw.RequireAuthenticated())
	{
		authed.GET("/account/", h.BuildManagement)
		authed.GET("/account/update", h.BuildUpdateAccount)
		authed.GET("/account/update/:account_id", h.BuildUpdateAccount)
		authed.POST("/account/update", h.UpdateAccount)
		authed.POST("/account/update-password", h.UpdatePassword)

		authed.GET("/account/favorites", h.BuildFavorites)
		authed.POST("/favorite", h.SaveFavorite)
		authed.POST("/favorite/remove", h.RemoveFavorite)
	}

	// ── Employee / Admin routes ────────────────────────────────────
	manage := r.Group("/inv")
	manage.Use(mw.RequireAuthenticated(), mw.RequireElevatedRole())
	{
		manage.GET("/", h.BuildInventoryManagement)
		manage.GET("/add-classification", h.BuildAddClassification)
		manage.POST("/add-classification", h.AddClassification)
		manage.GET("/add-inventory", h.BuildAddInventory)
		manage.POST("/add-inventory", h.AddInventory)
		manage.GET("/edit/:inv_id", h.BuildEditInventory)
		manage.POST("/update", h.UpdateInventory)
		manage.GET("/delete/:inv_id", h.BuildDeleteConfirm)
		manage.POST("/delete", h.DeleteInventory)
	}
}

// staticDir serves /css/* and /js/* from the embedded asset tree.
func staticDir(fs http.FileSystem) gin.HandlerFunc {
	fileServer := http.FileServer(fs)
	return func(c *gin.Context) {
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
