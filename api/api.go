// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/nftstaking/api/assets"
	"github.com/vechain/nftstaking/api/events"
	"github.com/vechain/nftstaking/api/governance"
	"github.com/vechain/nftstaking/api/pools"
	"github.com/vechain/nftstaking/api/utils"
	"github.com/vechain/nftstaking/cry"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/metrics"
	"github.com/vechain/nftstaking/runtime"
)

var logger = log.New("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	EnableMetrics   bool
	EventsLimit     uint64
}

// New return api router
func New(
	rt *runtime.Runtime,
	logDB *logdb.LogDB,
	signing *cry.Signing,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pools.New(rt, signing).
		Mount(router, "/pools")
	governance.New(rt, signing).
		Mount(router)
	assets.New(rt).
		Mount(router)
	if logDB != nil {
		events.New(logDB, opts.EventsLimit).
			Mount(router, "/events")
	}

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut}),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(utils.CallerHeader)}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
