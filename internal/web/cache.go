package web

import (
	"ssrmodes/framework/httpserver"
	"ssrmodes/internal/config"
)

// cachePolicies applies configured Cache-Control overrides on top of the
// server defaults.
func cachePolicies(cfg config.Config) httpserver.CachePolicies {
	policies := httpserver.DefaultCachePolicies()
	if cfg.CacheHTML != "" {
		policies.HTML = cfg.CacheHTML
	}
	if cfg.CacheStatic != "" {
		policies.Static = cfg.CacheStatic
	}
	if cfg.CacheHealth != "" {
		policies.Health = cfg.CacheHealth
	}
	if cfg.CacheError != "" {
		policies.Error = cfg.CacheError
	}
	return policies
}
