package auth

import (
	"crypto/subtle"
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/overlaykit/streamrelay/internal/ierr"
)

type Claims struct {
	jwt.RegisteredClaims
	Scope []string `json:"scope,omitempty"`
}

type Authentication struct {
	Subject string
	Scope   []string
}

func (a *Authentication) CanRead() bool {
	return slices.Contains(a.Scope, "read") || a.CanManage()
}

func (a *Authentication) CanManage() bool {
	return slices.Contains(a.Scope, "manage")
}

type Authenticator struct {
	secret    []byte
	apiKeys   []string
	jwtParser *jwt.Parser
}

func NewAuthenticator(secret string, apiKeys []string) *Authenticator {
	jwtParser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithAudience("streamrelay"),
	)

	return &Authenticator{
		secret:    []byte(secret),
		apiKeys:   apiKeys,
		jwtParser: jwtParser,
	}
}

func (a *Authenticator) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ierr.New(ierr.ErrorCodeUnauthenticated, errors.New("unexpected signing method"))
	}
	return a.secret, nil
}

// Authenticate resolves a bearer token: an API key grants manage,
// otherwise the token is parsed as a JWT and the scope claim decides.
func (a *Authenticator) Authenticate(token string) (*Authentication, error) {
	for _, key := range a.apiKeys {
		if subtle.ConstantTimeCompare([]byte(token), []byte(key)) == 1 {
			return &Authentication{
				Subject: "api",
				Scope:   []string{"manage"},
			}, nil
		}
	}

	return a.authenticateJWT(token)
}

func (a *Authenticator) authenticateJWT(tokenString string) (*Authentication, error) {
	claims := Claims{}

	_, err := a.jwtParser.ParseWithClaims(tokenString, &claims, a.keyFunc)
	if err != nil {
		return nil, ierr.New(ierr.ErrorCodeUnauthenticated, err)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid subject claim"))
	}

	if len(claims.Scope) == 0 {
		return nil, ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("scope cannot be empty"))
	}

	return &Authentication{
		Subject: subject,
		Scope:   claims.Scope,
	}, nil
}
