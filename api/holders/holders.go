// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package holders

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/thor"
)

type Holders struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Holders {
	return &Holders{ledger}
}

func (h *Holders) getHolder(addr thor.Address) (*Holder, error) {
	var out *Holder
	err := h.ledger.View(func(c *builtin.Contracts) error {
		balance, err := c.Liquid.BalanceOf(addr)
		if err != nil {
			return err
		}
		shares, err := c.Liquid.SharesOf(addr)
		if err != nil {
			return err
		}
		delegatee, err := c.Liquid.DelegateeForHolder(addr)
		if err != nil {
			return err
		}
		id, err := c.Liquid.DepositIDForHolder(addr)
		if err != nil {
			return err
		}
		out = &Holder{
			Address:   addr,
			Balance:   utils.Hex256(balance),
			Shares:    utils.Hex256(shares),
			Delegatee: delegatee,
			DepositID: uint64(id),
		}
		return nil
	})
	return out, err
}

func (h *Holders) handleGetHolder(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	holder, err := h.getHolder(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, holder)
}

func (h *Holders) handleStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}

	var minted *big.Int
	receipt, err := h.ledger.Execute("stake", func(c *builtin.Contracts) (err error) {
		minted, err = c.Liquid.Stake(addr, amount)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, minted))
}

func (h *Holders) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}

	var burned *big.Int
	receipt, err := h.ledger.Execute("unstake", func(c *builtin.Contracts) (err error) {
		burned, err = c.Liquid.Unstake(addr, amount)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, burned))
}

func (h *Holders) parseTransfer(req *http.Request) (from, to thor.Address, amount *big.Int, err error) {
	if from, err = utils.AddressVar(req, "address"); err != nil {
		return
	}
	var body TransferRequest
	if err = utils.ParseJSON(req.Body, &body); err != nil {
		err = utils.BadRequest(errors.WithMessage(err, "body"))
		return
	}
	if to, err = utils.RequiredAddress(body.To, "to"); err != nil {
		return
	}
	amount, err = utils.Amount(body.Amount, "amount")
	return
}

func (h *Holders) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	from, to, amount, err := h.parseTransfer(req)
	if err != nil {
		return err
	}

	var moved *big.Int
	receipt, err := h.ledger.Execute("transfer", func(c *builtin.Contracts) (err error) {
		moved, err = c.Liquid.Transfer(from, to, amount)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, moved))
}

func (h *Holders) handleTransferShares(w http.ResponseWriter, req *http.Request) error {
	from, to, amount, err := h.parseTransfer(req)
	if err != nil {
		return err
	}

	receipt, err := h.ledger.Execute("transferShares", func(c *builtin.Contracts) error {
		return c.Liquid.TransferShares(from, to, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, amount))
}

func (h *Holders) handleSetDelegatee(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var body DelegateeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	delegatee, err := utils.RequiredAddress(body.Delegatee, "delegatee")
	if err != nil {
		return err
	}

	receipt, err := h.ledger.Execute("setDelegatee", func(c *builtin.Contracts) error {
		return c.Liquid.SetDelegatee(addr, delegatee)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, nil))
}

func (h *Holders) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /holders/{address}").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHolder))
	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("POST /holders/{address}/stake").
		HandlerFunc(utils.WrapHandlerFunc(h.handleStake))
	sub.Path("/{address}/unstake").
		Methods(http.MethodPost).
		Name("POST /holders/{address}/unstake").
		HandlerFunc(utils.WrapHandlerFunc(h.handleUnstake))
	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("POST /holders/{address}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(h.handleTransfer))
	sub.Path("/{address}/transferShares").
		Methods(http.MethodPost).
		Name("POST /holders/{address}/transferShares").
		HandlerFunc(utils.WrapHandlerFunc(h.handleTransferShares))
	sub.Path("/{address}/delegatee").
		Methods(http.MethodPost).
		Name("POST /holders/{address}/delegatee").
		HandlerFunc(utils.WrapHandlerFunc(h.handleSetDelegatee))
}
