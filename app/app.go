// Package app bundles the per-process dependencies handed to request
// handlers: the resolved storage backend, the rate-limit table, and
// the configuration. There are no hidden singletons; everything a
// handler touches comes through here.
package app

import (
	"github.com/nanotronics/survey-server/config"
	"github.com/nanotronics/survey-server/ratelimit"
	"github.com/nanotronics/survey-server/storage"
)

type App struct {
	Store   storage.Store
	Limiter *ratelimit.Limiter
	config.Config
}
