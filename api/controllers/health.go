package controllers

import (
	"net/http"

	"github.com/kadavakolla169-collab/SmartCartShop/api/responses"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/db"
	pkgerrors "github.com/kadavakolla169-collab/SmartCartShop/pkg/errors"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/logger"
	"github.com/kadavakolla169-collab/SmartCartShop/pkg/redis"
)

// HealthController serves liveness and readiness probes.
type HealthController struct {
	db    db.Pinger
	redis redis.Pinger
	logg  *logger.Logger
}

// NewHealthController wires the probe dependencies.
func NewHealthController(database db.Pinger, cache redis.Pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: database, redis: cache, logg: logg}
}

// Live reports that the process is up.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

// Ready reports whether the backing stores are reachable.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}

	healthy := true
	if c.db == nil {
		checks["database"] = "not configured"
		healthy = false
	} else if err := c.db.Ping(r.Context()); err != nil {
		checks["database"] = "unreachable"
		healthy = false
	}
	if c.redis == nil {
		checks["redis"] = "not configured"
		healthy = false
	} else if err := c.redis.Ping(r.Context()); err != nil {
		checks["redis"] = "unreachable"
		healthy = false
	}

	if !healthy {
		responses.WriteError(r.Context(), c.logg, w,
			pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").
				WithDetails(map[string]any{"checks": checks}))
		return
	}
	responses.WriteSuccess(w, map[string]any{"status": "ok", "checks": checks})
}
