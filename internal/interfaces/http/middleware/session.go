package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/application/pos"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/apiclient"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/logger"
	"github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session context keys
const (
	TerminalKey   = "pos_terminal"
	OperatorKey   = "pos_operator"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// sessionNamespace derives stable session ids from bearer credentials.
var sessionNamespace = uuid.MustParse("6f1c3b0e-5a8d-4c2e-9b7a-3d5e8f1a2c4b")

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	Registry *pos.SessionRegistry
	// Clock is used for expiry checks; defaults to time.Now
	Clock func() time.Time
}

// Session resolves the caller's terminal from the bearer credential.
//
// The console does not hold the signing key, so the token signature is never
// checked here. Routes that reach the business API (catalog, submit, history,
// receipts of past sales) have the token verified there; cart and receipt
// routes served from memory do not. A terminal is therefore keyed by the whole
// token: only a caller presenting the exact credential reaches it. The claims
// are read for the operator name and to turn away tokens that have visibly
// expired, never to choose the terminal.
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	parser := jwt.NewParser()

	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(AuthHeaderKey))
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Missing bearer token")
			return
		}

		var claims jwt.RegisteredClaims
		if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Malformed bearer token")
			return
		}
		if claims.ExpiresAt != nil && !claims.ExpiresAt.After(cfg.Clock()) {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenExpired, "Session expired, please sign in again")
			return
		}

		operator := claims.Subject
		if operator == "" {
			operator = "anonymous"
		}
		sessionID := SessionID(token)

		ctx := apiclient.ContextWithToken(c.Request.Context(), token)
		ctx, sessionLogger := logger.WithSession(ctx, logger.GetGinLogger(c), sessionID, operator)
		c.Request = c.Request.WithContext(ctx)
		c.Set(logger.GinContextKey, sessionLogger)

		tagSessionSpan(c, sessionID, operator)

		c.Set(OperatorKey, operator)
		c.Set(TerminalKey, cfg.Registry.Acquire(sessionID, operator))
		c.Next()
	}
}

// SessionID returns the terminal session id for a bearer token. Tokens that
// differ in any byte, signature included, get different sessions.
func SessionID(token string) string {
	return uuid.NewSHA1(sessionNamespace, []byte(token)).String()
}

// GetTerminal returns the terminal resolved by Session
func GetTerminal(c *gin.Context) (*pos.Terminal, bool) {
	v, ok := c.Get(TerminalKey)
	if !ok {
		return nil, false
	}
	t, ok := v.(*pos.Terminal)
	return t, ok
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(BearerPrefix) || !strings.EqualFold(header[:len(BearerPrefix)], BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	return token, token != ""
}
