package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/middleware"
	"github.com/jocoker/cse340/models"
)

const (
	msgBadCredentials      = "Please check your credentials and try again."
	msgRegistrationFailed  = "Sorry, the registration failed."
	msgRegistrationHashErr = "Sorry, there was an error processing the registration."
	msgLoggedOut           = "You have successfully logged out."
	msgAccountUpdated      = "Account information updated successfully."
	msgAccountUpdateFailed = "Update failed. Please try again."
	msgPasswordUpdated     = "Password updated successfully."
	msgPasswordFailed      = "Password update failed."
	msgOwnAccountOnly      = "You can only update your own account."
)

// BuildLogin shows the login form
func (h *Handler) BuildLogin(c *gin.Context) {
	h.render(c, http.StatusOK, "account/login", "Login", gin.H{"form": loginForm{}})
}

// BuildRegister shows the registration form
func (h *Handler) BuildRegister(c *gin.Context) {
	h.render(c, http.StatusOK, "account/register", "Register", gin.H{"form": registerForm{}})
}

// Register creates a Client account and asks the user to log in.
func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	_ = c.ShouldBind(&form)
	form.normalize()

	// never echo the password back
	redisplay := func(status int, data gin.H) {
		form.Password = ""
		data["form"] = form
		h.render(c, status, "account/register", "Register", data)
	}

	if verr := h.forms.check(form, registerMessages); verr != nil {
		redisplay(http.StatusBadRequest, gin.H{"errors": verr.Messages()})
		return
	}

	acct, err := h.accounts.Register(c.Request.Context(), auth.Registration{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		redisplay(http.StatusBadRequest, gin.H{"errors": verr.Messages()})
		return
	case errors.Is(err, auth.ErrHashFailed):
		middleware.Logf(c, "register: %v", err)
		redisplay(http.StatusInternalServerError, gin.H{"notice": msgRegistrationHashErr})
		return
	case err != nil:
		middleware.Logf(c, "register: %v", err)
		redisplay(http.StatusInternalServerError, gin.H{"notice": msgRegistrationFailed})
		return
	}

	h.render(c, http.StatusCreated, "account/login", "Login", gin.H{
		"form":   loginForm{Email: acct.Email},
		"notice": "Congratulations, you're registered " + acct.FirstName + ". Please log in.",
	})
}

// Login verifies credentials, sets the jwt cookie and sends the user to
// account management.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)
	form.normalize()

	redisplay := func(data gin.H) {
		data["form"] = loginForm{Email: form.Email}
		h.render(c, http.StatusBadRequest, "account/login", "Login", data)
	}

	if verr := h.forms.check(form, loginMessages); verr != nil {
		redisplay(gin.H{"errors": verr.Messages()})
		return
	}

	token, _, err := h.accounts.Login(c.Request.Context(), form.Email, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		redisplay(gin.H{"notice": msgBadCredentials})
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.auth.SetSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/account/")
}

// BuildManagement shows the account dashboard.
func (h *Handler) BuildManagement(c *gin.Context) {
	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "account/management", "Account Management", gin.H{
		"profile":  acct,
		"elevated": acct.Type.IsElevated(),
	})
}

// BuildUpdateAccount shows the profile and password forms for the logged-in
// account. The optional :account_id must name that same account.
func (h *Handler) BuildUpdateAccount(c *gin.Context) {
	if !h.ownsAccount(c, c.Param("account_id")) {
		return
	}
	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}
	h.renderUpdateAccount(c, http.StatusOK, acct.ID, accountForm{
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		Email:     acct.Email,
	}, gin.H{})
}

// UpdateAccount saves names and email and re-issues the session token.
func (h *Handler) UpdateAccount(c *gin.Context) {
	var form accountForm
	_ = c.ShouldBind(&form)
	form.normalize()
	if !h.ownsAccount(c, form.AccountID) {
		return
	}
	id := middleware.SessionFrom(c).AccountID()

	if verr := h.forms.check(form, accountMessages); verr != nil {
		h.renderUpdateAccount(c, http.StatusBadRequest, id, form, gin.H{"errors": verr.Messages()})
		return
	}

	token, _, err := h.accounts.UpdateProfile(c.Request.Context(), id, auth.ProfileUpdate{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	})
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderUpdateAccount(c, http.StatusBadRequest, id, form, gin.H{"errors": verr.Messages()})
		return
	case errors.Is(err, models.ErrNotFound):
		h.staleSession(c)
		return
	case err != nil:
		middleware.Logf(c, "update account %d: %v", id, err)
		h.renderUpdateAccount(c, http.StatusInternalServerError, id, form, gin.H{"notice": msgAccountUpdateFailed})
		return
	}

	h.auth.SetSessionCookie(c, token)
	h.flash(c, msgAccountUpdated)
	c.Redirect(http.StatusFound, "/account/")
}

// UpdatePassword replaces the account's password hash.
func (h *Handler) UpdatePassword(c *gin.Context) {
	var form passwordForm
	_ = c.ShouldBind(&form)
	if !h.ownsAccount(c, form.AccountID) {
		return
	}

	if verr := h.forms.check(form, passwordMessages); verr != nil {
		h.redisplayPassword(c, http.StatusBadRequest, gin.H{"errors": verr.Messages()})
		return
	}

	id := middleware.SessionFrom(c).AccountID()
	err := h.accounts.ChangePassword(c.Request.Context(), id, form.Password)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		h.redisplayPassword(c, http.StatusBadRequest, gin.H{"errors": verr.Messages()})
		return
	case errors.Is(err, models.ErrNotFound):
		h.staleSession(c)
		return
	case err != nil:
		middleware.Logf(c, "update password %d: %v", id, err)
		h.redisplayPassword(c, http.StatusInternalServerError, gin.H{"notice": msgPasswordFailed})
		return
	}

	h.flash(c, msgPasswordUpdated)
	c.Redirect(http.StatusFound, "/account/")
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	h.auth.ClearSessionCookie(c)
	h.flash(c, msgLoggedOut)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) redisplayPassword(c *gin.Context, status int, data gin.H) {
	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}
	h.renderUpdateAccount(c, status, acct.ID, accountForm{
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		Email:     acct.Email,
	}, data)
}

func (h *Handler) renderUpdateAccount(c *gin.Context, status int, id uint, form accountForm, data gin.H) {
	data["form"] = form
	data["accountID"] = id
	h.render(c, status, "account/update-account", "Update Account", data)
}

// currentAccount loads the account behind the session. It writes the
// response and returns false when that is not possible.
func (h *Handler) currentAccount(c *gin.Context) (models.Account, bool) {
	id := middleware.SessionFrom(c).AccountID()
	acct, err := h.store.AccountByID(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		h.staleSession(c)
		return models.Account{}, false
	}
	if err != nil {
		h.serverError(c, err)
		return models.Account{}, false
	}
	return acct, true
}

// ownsAccount rejects a submitted or routed account id that is not the
// session's own. An empty id is accepted.
func (h *Handler) ownsAccount(c *gin.Context, raw string) bool {
	if raw == "" {
		return true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err == nil && uint(id) == middleware.SessionFrom(c).AccountID() {
		return true
	}
	h.flash(c, msgOwnAccountOnly)
	c.Redirect(http.StatusFound, "/account/")
	return false
}

// staleSession handles a valid token whose account no longer exists.
func (h *Handler) staleSession(c *gin.Context) {
	h.auth.ClearSessionCookie(c)
	h.flash(c, middleware.MsgPleaseLogIn)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
