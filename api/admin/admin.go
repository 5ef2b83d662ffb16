// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/liquid/api/admin/apilogs"
	"github.com/vechain/liquid/api/admin/loglevel"
	"github.com/vechain/liquid/ledger"

	healthAPI "github.com/vechain/liquid/api/admin/health"
)

func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, ledger *ledger.Ledger) http.HandlerFunc {
	router := mux.NewRouter()
	subRouter := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(subRouter, "/loglevel")
	apilogs.New(apiLogs).Mount(subRouter, "/apilogs")
	healthAPI.NewAPI(healthAPI.New(ledger)).Mount(subRouter, "/health")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
