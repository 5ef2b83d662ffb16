// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package totals

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/thor"
)

// Totals is the ledger wide state.
type Totals struct {
	Seq               uint64                `json:"seq"`
	Owner             thor.Address          `json:"owner"`
	DefaultDelegatee  thor.Address          `json:"defaultDelegatee"`
	TotalStake        *math.HexOrDecimal256 `json:"totalStake"`
	TotalShares       *math.HexOrDecimal256 `json:"totalShares"`
	ShareScaleFactor  *math.HexOrDecimal256 `json:"shareScaleFactor"`
	InitialShareRatio *math.HexOrDecimal256 `json:"initialShareRatio"`
	Staked            *math.HexOrDecimal256 `json:"staked"`
}

type API struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *API {
	return &API{ledger}
}

func (a *API) totals() (*Totals, error) {
	seq, err := a.ledger.Seq()
	if err != nil {
		return nil, err
	}
	out := &Totals{Seq: seq}
	err = a.ledger.View(func(c *builtin.Contracts) error {
		var err error
		if out.Owner, err = c.Liquid.Owner(); err != nil {
			return err
		}
		if out.DefaultDelegatee, err = c.Liquid.DefaultDelegatee(); err != nil {
			return err
		}
		totals, err := c.Liquid.Totals()
		if err != nil {
			return err
		}
		out.TotalStake = utils.Hex256(totals.Stake)
		out.TotalShares = utils.Hex256(totals.Shares)

		scale, err := c.Liquid.ShareScaleFactor()
		if err != nil {
			return err
		}
		ratio, err := c.Liquid.InitialShareRatio()
		if err != nil {
			return err
		}
		out.ShareScaleFactor = utils.Hex256(scale)
		out.InitialShareRatio = utils.Hex256(ratio)

		staked, err := c.Staking.TotalStaked()
		if err != nil {
			return err
		}
		out.Staked = utils.Hex256(staked)
		return nil
	})
	return out, err
}

func (a *API) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	totals, err := a.totals()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, totals)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /totals").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetTotals))
}
