package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"payportal.backend/internal/config"
	"payportal.backend/internal/infrastructure/storage"
)

func stubStartup(t *testing.T) *config.Config {
	t.Helper()
	origDotenv, origCfg, origLog, origRedis, origStore, origRun, origWait :=
		loadDotenv, loadCfg, initLog, initRedis, openStore, runServer, shutdownWait
	t.Cleanup(func() {
		loadDotenv, loadCfg, initLog, initRedis, openStore, runServer, shutdownWait =
			origDotenv, origCfg, origLog, origRedis, origStore, origRun, origWait
	})

	cfg := config.Load()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "portal.db")

	loadDotenv = func(...string) error { return errors.New("no .env") }
	loadCfg = func() *config.Config { return cfg }
	initLog = func(string) {}
	initRedis = func(string, string) error { return nil }
	shutdownWait = func() <-chan os.Signal { return make(chan os.Signal) }
	return cfg
}

func TestRunMainProcess_RejectsInvalidConfig(t *testing.T) {
	cfg := stubStartup(t)
	cfg.Database.Driver = "oracle"

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRunMainProcess_RedisFailure(t *testing.T) {
	stubStartup(t)
	initRedis = func(string, string) error { return errors.New("dial tcp: refused") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize redis")
}

func TestRunMainProcess_StoreFailure(t *testing.T) {
	stubStartup(t)
	openStore = func(context.Context, *config.Config) (*storage.Backend, error) {
		return nil, errors.New("connection refused")
	}

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}

func TestRunMainProcess_ServesUntilClosed(t *testing.T) {
	stubStartup(t)

	var served *http.Server
	runServer = func(srv *http.Server) error {
		served = srv
		return http.ErrServerClosed
	}

	require.NoError(t, runMainProcess())
	require.NotNil(t, served)
	assert.Equal(t, ":8080", served.Addr)
	assert.NotNil(t, served.Handler)
}

func TestRunMainProcess_ListenFailure(t *testing.T) {
	stubStartup(t)
	runServer = func(*http.Server) error { return errors.New("address already in use") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start server")
}
