package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/samboni/storefront-backend/api/responses"
	"github.com/samboni/storefront-backend/pkg/config"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is the reachability probe each dependency client exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live", "env": cfg.App.Env})
	}
}

// HealthReady probes every dependency and aggregates failures, so a
// single readiness response names everything that is down.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var combined error
		failed := make([]string, 0)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				combined = multierr.Append(combined, err)
				failed = append(failed, name)
			}
		}

		if combined != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeUpstream, combined, "dependencies unavailable").
				WithDetails(map[string]any{"failed": failed})
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready", "env": cfg.App.Env})
	}
}
