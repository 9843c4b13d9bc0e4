package handlers

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/finguard/user-service/internal/persistence"
)

func newHealthApp(deps ...Dependency) *fiber.App {
	return newHealthAppWithLogger(zap.NewNop(), deps...)
}

func newHealthAppWithLogger(logger *zap.Logger, deps ...Dependency) *fiber.App {
	h := NewHealthHandler("user-service", "test", logger, deps...)
	app := fiber.New()
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
	return app
}

func decodeBody(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHealthLive(t *testing.T) {
	status, body := decodeBody(t, newHealthApp(), "/health/live")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "user-service", body["service"])
}

func TestHealthReady(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := &persistence.Redis{Client: client}

	t.Run("all dependencies reachable", func(t *testing.T) {
		status, body := decodeBody(t, newHealthApp(Dependency{Name: "redis", Pinger: store}), "/health/ready")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, map[string]any{"redis": "ok"}, body["dependencies"])
	})

	t.Run("unconfigured postgres", func(t *testing.T) {
		var pg *persistence.Postgres
		core, logs := observer.New(zap.WarnLevel)
		app := newHealthAppWithLogger(zap.New(core),
			Dependency{Name: "postgres", Pinger: pg},
			Dependency{Name: "redis", Pinger: store},
		)
		status, body := decodeBody(t, app, "/health/ready")
		assert.Equal(t, fiber.StatusServiceUnavailable, status)

		errBody := body["error"].(map[string]any)
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errBody["code"])
		details := errBody["details"].(map[string]any)
		assert.Equal(t, "ok", details["redis"])
		assert.Equal(t, "unavailable", details["postgres"])

		entries := logs.FilterMessage("readiness check failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "postgres", entries[0].ContextMap()["dependency"])
		assert.Equal(t, "postgres pool not configured", entries[0].ContextMap()["error"])
	})

	t.Run("redis down", func(t *testing.T) {
		down, err := miniredis.Run()
		require.NoError(t, err)
		addr := down.Addr()
		down.Close()

		unreachable := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
		t.Cleanup(func() { _ = unreachable.Close() })

		status, body := decodeBody(t, newHealthApp(Dependency{Name: "redis", Pinger: &persistence.Redis{Client: unreachable}}), "/health/ready")
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
		details := body["error"].(map[string]any)["details"].(map[string]any)
		assert.Equal(t, "unavailable", details["redis"])
		assert.NotContains(t, fmt.Sprint(details), addr)
	})
}
