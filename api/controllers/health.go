package controllers

import (
	"context"
	"net/http"

	"github.com/blazetaller/taller-backend/api/responses"
	"github.com/blazetaller/taller-backend/pkg/config"
	"github.com/blazetaller/taller-backend/pkg/db"
	pkgerrors "github.com/blazetaller/taller-backend/pkg/errors"
	"github.com/blazetaller/taller-backend/pkg/logger"
)

// GroupChecker reports missing permission groups.
type GroupChecker interface {
	CheckGroups(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Taller-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady fails while the database is unreachable or a role group is missing.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, groups GroupChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Taller-Env", cfg.App.Env)
		if dbP == nil || groups == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "readiness dependencies unavailable"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
		if err := groups.CheckGroups(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
