// Package storage provides the persistence backends the task store writes
// its serialized collection to. Each backend stores the whole collection as
// one blob under a fixed key or path.
package storage

import (
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultKey is the fixed key the task collection is saved under.
const DefaultKey = "taskmanager:tasks"

// DefaultFile is the fixed path used when no data file is configured.
const DefaultFile = "tasks.json"

// ParseRedisOptions understands both redis:// URLs and the comma-separated
// "host:port,password=...,ssl=true" connection string form.
func ParseRedisOptions(connStr string) *redis.Options {
	opts, err := redis.ParseURL(connStr)
	if err == nil {
		return opts
	}
	parts := strings.Split(connStr, ",")
	opts = &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts
}
