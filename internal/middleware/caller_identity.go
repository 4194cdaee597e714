package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrTokenMissing = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	ErrTokenInvalid = apperror.New(apperror.CodeUnauthorized, "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired = apperror.New(apperror.CodeUnauthorized, "Token has expired", http.StatusUnauthorized)
)

// CallerClaims is what the upstream identity provider puts in the token.
// Only the subject is required; the role is carried for logging.
type CallerClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// CallerIdentity verifies the bearer token (or access_token cookie) and
// records the caller in the request context. It does not authorize.
func CallerIdentity(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}))

	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWith(c, ErrTokenMissing)
			return
		}

		var claims CallerClaims
		_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWith(c, ErrTokenExpired)
				return
			}
			abortWith(c, ErrTokenInvalid)
			return
		}
		if claims.Subject == "" {
			abortWith(c, ErrTokenInvalid)
			return
		}

		caller := contextutil.Caller{ID: claims.Subject, Role: claims.Role}
		c.Set("caller_id", caller.ID)

		ctx := contextutil.WithCaller(c.Request.Context(), caller)
		log := contextutil.GetLogger(ctx, zap.L()).With(zap.String("caller_id", caller.ID))
		ctx = contextutil.WithLogger(ctx, log)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Abort(c, err.HTTPStatus, err.Code, err.Message)
}
