// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"
	"sync/atomic"

	"github.com/vechain/liquid/api/admin"
	"github.com/vechain/liquid/ledger"
)

func NewAdminServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, ledger *ledger.Ledger) (*Server, error) {
	return listen("admin API", addr, "/admin", newHTTPServer(admin.New(logLevel, apiLogs, ledger)))
}
