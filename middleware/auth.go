package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/statemachine"
)

const (
	SessionCookie = "jwt"
	LoginPath     = "/account/login"
	sessionKey    = "session"

	MsgPleaseLogIn  = "Please log in."
	MsgAccessDenied = "Access denied. Admin or Employee only."
)

type Auth struct {
	tokens  *auth.TokenIssuer
	notices *Notices
	secure  bool
}

func NewAuth(tokens *auth.TokenIssuer, notices *Notices, secure bool) (*Auth, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	if notices == nil {
		return nil, fmt.Errorf("notices are required")
	}
	return &Auth{tokens: tokens, notices: notices, secure: secure}, nil
}

// CheckJWTToken resolves the access state of the request from the jwt
// cookie. A cookie that fails verification is cleared and the request
// continues unauthenticated.
func (a *Auth) CheckJWTToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Set(sessionKey, statemachine.Anonymous())
			c.Next()
			return
		}
		claims, err := a.tokens.Verify(raw)
		sess := statemachine.Resolve(claims, err)
		if !sess.LoggedIn() {
			a.ClearSessionCookie(c)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// RequireAuthenticated redirects anonymous requests to the login page.
func (a *Auth) RequireAuthenticated() gin.HandlerFunc {
	return a.require(statemachine.GuardAuthenticated)
}

// RequireElevatedRole admits Employee and Admin accounts only. Mount it
// after RequireAuthenticated.
func (a *Auth) RequireElevatedRole() gin.HandlerFunc {
	return a.require(statemachine.GuardElevated)
}

func (a *Auth) require(guard statemachine.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := statemachine.Check(SessionFrom(c), guard)
		if err == nil {
			c.Next()
			return
		}
		msg := MsgAccessDenied
		if errors.Is(err, statemachine.ErrNotAuthenticated) {
			msg = MsgPleaseLogIn
		}
		a.notices.Flash(c, msg)
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}

func (a *Auth) SetSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) ClearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) Notices() *Notices { return a.notices }

// SessionFrom returns the access state attached by CheckJWTToken.
func SessionFrom(c *gin.Context) statemachine.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(statemachine.Session); ok {
			return sess
		}
	}
	return statemachine.Anonymous()
}
