package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/middleware"
)

// Home renders the landing page
func (h *Handler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "index", "Home", gin.H{})
}

// ErrorTest fails on purpose so the 500 page can be exercised.
func (h *Handler) ErrorTest(c *gin.Context) {
	panic("intentional error-test failure")
}

// NotFound is the NoRoute handler.
func (h *Handler) NotFound(c *gin.Context) {
	h.notFound(c, "404", msgPageMissing)
}

// Recovery renders the 500 page after a panic.
func (h *Handler) Recovery(c *gin.Context, recovered any) {
	middleware.Logf(c, "❌ panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
	h.errorPage(c, http.StatusInternalServerError, "Server Error", msgServerError)
	c.Abort()
}

// redirectBack returns the user to the referring page when it is on this
// host, otherwise to fallback.
func redirectBack(c *gin.Context, fallback string) {
	target := fallback
	if ref := c.GetHeader("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && (u.Host == "" || u.Host == c.Request.Host) && u.Path != "" {
			target = u.RequestURI()
		}
	}
	c.Redirect(http.StatusFound, target)
}
