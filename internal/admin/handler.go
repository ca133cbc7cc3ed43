// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

type Counter func(ctx context.Context) (int, error)

// Sources are the probes the stats endpoints read from. Any of them may be
// nil, in which case its section is omitted.
type Sources struct {
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	Users      Counter
	Roles      Counter
}

type Handler struct {
	src Sources
}

func NewHandler(src Sources) *Handler {
	return &Handler{src: src}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetStats)
		r.Get("/stats/accounts", h.GetAccountStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	core.OK(w, StatsResponse{
		Database: DatabaseStatus{
			Healthy: pingOK(ctx, "database", h.src.DBPing),
			Stats:   h.dbPool(),
		},
		Redis: RedisStatus{
			Healthy: pingOK(ctx, "redis", h.src.RedisPing),
			Stats:   h.redisPool(),
		},
		Accounts: h.accounts(ctx),
		Runtime:  readRuntime(),
	})
}

func (h *Handler) GetAccountStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.accounts(r.Context()))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntime())
}

func pingOK(ctx context.Context, name string, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	if err := ping(ctx); err != nil {
		slog.WarnContext(ctx, "admin stats ping failed", "dependency", name, "error", err)
		return false
	}
	return true
}

// accounts reports -1 for a count that could not be read.
func (h *Handler) accounts(ctx context.Context) AccountStats {
	return AccountStats{
		Users: count(ctx, "users", h.src.Users),
		Roles: count(ctx, "roles", h.src.Roles),
	}
}

func count(ctx context.Context, name string, counter Counter) int {
	if counter == nil {
		return -1
	}
	n, err := counter(ctx)
	if err != nil {
		slog.WarnContext(ctx, "admin stats count failed", "table", name, "error", err)
		return -1
	}
	return n
}

func (h *Handler) dbPool() *DBPoolStats {
	if h.src.DBStats == nil {
		return nil
	}

	s := h.src.DBStats()
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
	}
}

func (h *Handler) redisPool() *RedisPoolStats {
	if h.src.RedisStats == nil {
		return nil
	}

	s := h.src.RedisStats()
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     mem.Alloc,
		NumGC:        mem.NumGC,
	}
}

type StatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Accounts AccountStats   `json:"accounts"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type AccountStats struct {
	Users int `json:"users"`
	Roles int `json:"roles"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
