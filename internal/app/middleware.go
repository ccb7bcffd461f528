package app

import (
	"errors"
	"net/http"

	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies) {

	// Resolve the X-User-Id header into the profile stored in the request context
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			uid := req.Header.Get("X-User-Id")
			ctx := req.Context()

			if uid != "" {
				p, err := deps.ProfileService.GetByUid(ctx, uid)
				if err != nil {
					if errors.Is(err, profile.ErrProfileNotFound) {
						log.Debugf("profile not found: %s", uid)
						http.Error(w, "profile not found", http.StatusForbidden)
						return
					}
					log.Errorf("failed to get profile: %v", err)
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				log.Tracef("profile found: %s", p.Uid)
				ctx = profile.WithProfile(ctx, p)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
