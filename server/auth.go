package server

import (
	"net/http"

	"github.com/cyp0633/calview/server/auth"
)

type authenticatorConfig struct {
	authenticator auth.Authenticator
	realm         string
	public        []string
}

// WithAuthenticator requires HTTP Basic credentials on every route except
// those under the public path prefixes.
func WithAuthenticator(authenticator auth.Authenticator, realm string, public ...string) Option {
	return func(s *Server) {
		s.authenticator = authenticatorConfig{
			authenticator: authenticator,
			realm:         realm,
			public:        public,
		}
	}
}

func (s *Server) wrapAuth(next http.Handler) http.Handler {
	if s.authenticator.authenticator == nil {
		return next
	}
	s.logger.Debug("basic authentication enabled",
		"realm", s.authenticator.realm,
		"public", s.authenticator.public)
	return auth.Middleware(s.authenticator.authenticator, s.authenticator.realm, s.authenticator.public...)(next)
}

// principalID names the caller for logging. Anonymous requests yield "".
func principalID(r *http.Request) string {
	if p := auth.GetPrincipalFromContext(r.Context()); p != nil {
		return p.ID
	}
	return ""
}
