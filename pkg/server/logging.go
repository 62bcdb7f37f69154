package server

import (
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"
)

var httplogMu sync.Mutex

// maskLoggedHeaders adds headers to httplog's SkipHeaders so their values are
// logged as "***". httplog keeps its options in a package global, so the list
// only grows. The zerolog globals Configure touches are passed through as they are.
func maskLoggedHeaders(headers ...string) {
	httplogMu.Lock()
	defer httplogMu.Unlock()

	skip := slices.Clone(httplog.DefaultOptions.SkipHeaders)
	for _, h := range headers {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" && !slices.Contains(skip, h) {
			skip = append(skip, h)
		}
	}
	if len(skip) == len(httplog.DefaultOptions.SkipHeaders) {
		return
	}

	opts := httplog.DefaultOptions
	opts.SkipHeaders = skip
	opts.JSON = true
	opts.LogLevel = zerolog.GlobalLevel().String()
	opts.LevelFieldName = zerolog.LevelFieldName
	opts.TimeFieldName = zerolog.TimestampFieldName
	opts.TimeFieldFormat = zerolog.TimeFieldFormat
	httplog.Configure(opts)
}
