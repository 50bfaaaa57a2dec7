// Package auth guards state-changing HTML form posts with an
// anti-forgery token kept in the cookie session.
package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionName = "gosess"

	// FormField is the hidden input every form post carries.
	FormField = "__RequestVerificationToken"
	// HeaderName is accepted in place of the form field.
	HeaderName = "X-CSRF-Token"

	sessionKey = "csrf_token"
)

// Token returns the session's anti-forgery token, issuing one when the
// session has none yet.
func Token(c *gin.Context) (string, error) {
	sess := sessions.Default(c)
	if tok, ok := sess.Get(sessionKey).(string); ok && tok != "" {
		return tok, nil
	}

	tok := uuid.NewString()
	sess.Set(sessionKey, tok)
	if err := sess.Save(); err != nil {
		return "", err
	}
	return tok, nil
}

// RequireCSRF rejects requests whose submitted token does not match the
// session token. GET, HEAD and OPTIONS pass through.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		expected, _ := sessions.Default(c).Get(sessionKey).(string)
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing anti-forgery session"})
			return
		}

		submitted := c.GetHeader(HeaderName)
		if submitted == "" {
			submitted = c.PostForm(FormField)
		}
		if subtle.ConstantTimeCompare([]byte(submitted), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid anti-forgery token"})
			return
		}
		c.Next()
	}
}
