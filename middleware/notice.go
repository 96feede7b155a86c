package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	NoticeCookie = "notice"
	noticeTTL    = 5 * time.Minute
	noticeAud    = "notice"
	noticeKey    = "notice"
)

type noticeClaims struct {
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

// Notices carries one-shot user messages across a redirect in a signed
// cookie. The next request consumes it.
type Notices struct {
	secret []byte
	secure bool
	now    func() time.Time
}

func NewNotices(secret []byte, secure bool) (*Notices, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("notice secret is required")
	}
	return &Notices{secret: append([]byte(nil), secret...), secure: secure, now: time.Now}, nil
}

// Flash queues msg for the next request.
func (n *Notices) Flash(c *gin.Context, msg string) {
	now := n.now()
	claims := noticeClaims{
		Message: msg,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{noticeAud},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(noticeTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(n.secret)
	if err != nil {
		logf(c, "sign notice: %v", err)
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     NoticeCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(noticeTTL.Seconds()),
		HttpOnly: true,
		Secure:   n.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Load consumes the notice cookie and exposes its message via NoticeFrom.
func (n *Notices) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(NoticeCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		n.clear(c)
		if msg, ok := n.parse(raw); ok {
			c.Set(noticeKey, msg)
		}
		c.Next()
	}
}

func (n *Notices) parse(raw string) (string, bool) {
	claims := &noticeClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return n.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(noticeAud),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(n.now),
	)
	if err != nil || !token.Valid {
		return "", false
	}
	return claims.Message, true
}

func (n *Notices) clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     NoticeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   n.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// NoticeFrom returns the message consumed for this request, if any.
func NoticeFrom(c *gin.Context) string {
	return c.GetString(noticeKey)
}
