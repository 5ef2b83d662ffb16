// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/builtin/liquid/rewards"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/thor"
)

// DistributeRequest pulls amount from source into the ledger.
type DistributeRequest struct {
	Source *thor.Address         `json:"source"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Allocation struct {
	DepositID uint64                `json:"depositId"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
}

type Distribution struct {
	Allocations []*Allocation         `json:"allocations"`
	Attributed  *math.HexOrDecimal256 `json:"attributed"`
	Remainder   *math.HexOrDecimal256 `json:"remainder"`
	Receipt     *utils.Receipt        `json:"receipt"`
}

// Summary is the reward bookkeeping of the ledger.
type Summary struct {
	Dust        *math.HexOrDecimal256 `json:"dust"`
	Distributed *math.HexOrDecimal256 `json:"distributed"`
}

type Rewards struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Rewards {
	return &Rewards{ledger}
}

func (r *Rewards) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	var summary Summary
	err := r.ledger.View(func(c *builtin.Contracts) error {
		dust, err := c.Liquid.RewardDust()
		if err != nil {
			return err
		}
		distributed, err := c.Liquid.RewardsDistributed()
		if err != nil {
			return err
		}
		summary.Dust = utils.Hex256(dust)
		summary.Distributed = utils.Hex256(distributed)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &summary)
}

func (r *Rewards) handleDistribute(w http.ResponseWriter, req *http.Request) error {
	var body DistributeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	source, err := utils.RequiredAddress(body.Source, "source")
	if err != nil {
		return err
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}

	var plan *rewards.Plan
	receipt, err := r.ledger.Execute("distributeReward", func(c *builtin.Contracts) (err error) {
		plan, err = c.Liquid.DistributeReward(source, amount)
		return
	})
	if err != nil {
		return err
	}

	out := &Distribution{
		Allocations: make([]*Allocation, 0, len(plan.Allocations)),
		Attributed:  utils.Hex256(plan.Attributed),
		Remainder:   utils.Hex256(plan.Remainder),
		Receipt:     utils.ConvertReceipt(receipt, nil),
	}
	for _, a := range plan.Allocations {
		out.Allocations = append(out.Allocations, &Allocation{
			DepositID: uint64(a.ID),
			Amount:    utils.Hex256(a.Amount),
		})
	}
	return utils.WriteJSON(w, out)
}

func (r *Rewards) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /rewards").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetSummary))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /rewards").
		HandlerFunc(utils.WrapHandlerFunc(r.handleDistribute))
}
