package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"

	"blog-backend/internal/types"
)

var errUnauthenticated = types.NewError(types.KindUnauthenticated, "Invalid or missing token")

// Identity is the verified caller of a protected route.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Verifier issues and checks HS256 bearer tokens.
type Verifier struct {
	signKey   []byte
	ttl       time.Duration
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func NewVerifier(signKey []byte, ttl time.Duration) *Verifier {
	return &Verifier{
		signKey:   signKey,
		ttl:       ttl,
		tokenAuth: jwtauth.New("HS256", signKey, nil),
		now:       time.Now,
	}
}

func (v *Verifier) Issue(id Identity) (string, error) {
	now := v.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  id.ID,
		"username": id.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(v.ttl).Unix(),
	})
	return t.SignedString(v.signKey)
}

// Middleware finds a token in the Authorization header or jwt cookie and stores
// the verification result in the request context. It never rejects a request.
func (v *Verifier) Middleware() func(http.Handler) http.Handler {
	return jwtauth.Verifier(v.tokenAuth)
}

// verify checks a raw token string and resolves it to an identity.
func (v *Verifier) verify(tokenString string) (Identity, error) {
	token, err := jwtauth.VerifyToken(v.tokenAuth, tokenString)
	if err != nil || token == nil {
		return Identity{}, errUnauthenticated
	}
	return identityFromClaims(token.PrivateClaims())
}

// IdentityFromContext is the guard run before protected handlers: it returns the
// identity verified by Middleware or an unauthenticated error.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Identity{}, errUnauthenticated
	}
	return identityFromClaims(claims)
}

func identityFromClaims(claims map[string]interface{}) (Identity, error) {
	var id Identity
	switch v := claims["user_id"].(type) {
	case float64:
		id.ID = int64(v)
	case int64:
		id.ID = v
	default:
		return Identity{}, errUnauthenticated
	}
	username, _ := claims["username"].(string)
	if id.ID <= 0 || username == "" {
		return Identity{}, errUnauthenticated
	}
	id.Username = username
	return id, nil
}
