// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wrapper

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

type Wrapper struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Wrapper {
	return &Wrapper{ledger}
}

func (wr *Wrapper) handleGetInfo(w http.ResponseWriter, _ *http.Request) error {
	var info Info
	err := wr.ledger.View(func(c *builtin.Contracts) error {
		var err error
		info.Address = c.Wrapper.Address()
		if info.Owner, err = c.Wrapper.Owner(); err != nil {
			return err
		}
		if info.Delegatee, err = c.Wrapper.Delegatee(); err != nil {
			return err
		}
		supply, err := c.Wrapper.TotalSupply()
		if err != nil {
			return err
		}
		backing, err := c.Liquid.BalanceOf(info.Address)
		if err != nil {
			return err
		}
		info.TotalSupply = utils.Hex256(supply)
		info.Backing = utils.Hex256(backing)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &info)
}

func (wr *Wrapper) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var balance *big.Int
	err = wr.ledger.View(func(c *builtin.Contracts) (err error) {
		balance, err = c.Wrapper.BalanceOf(addr)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Address: addr, Balance: utils.Hex256(balance)})
}

func parseHolderRequest(req *http.Request) (thor.Address, *big.Int, error) {
	var body HolderRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return thor.Address{}, nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	holder, err := utils.RequiredAddress(body.Holder, "holder")
	if err != nil {
		return thor.Address{}, nil, err
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return thor.Address{}, nil, err
	}
	return holder, amount, nil
}

func (wr *Wrapper) handleWrap(w http.ResponseWriter, req *http.Request) error {
	holder, amount, err := parseHolderRequest(req)
	if err != nil {
		return err
	}
	var wrapped *big.Int
	receipt, err := wr.ledger.Execute("wrap", func(c *builtin.Contracts) (err error) {
		wrapped, err = c.Wrapper.Wrap(holder, amount)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, wrapped))
}

func (wr *Wrapper) handleUnwrap(w http.ResponseWriter, req *http.Request) error {
	holder, amount, err := parseHolderRequest(req)
	if err != nil {
		return err
	}
	var stake *big.Int
	receipt, err := wr.ledger.Execute("unwrap", func(c *builtin.Contracts) (err error) {
		stake, err = c.Wrapper.Unwrap(holder, amount)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, stake))
}

func (wr *Wrapper) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	from, err := utils.RequiredAddress(body.From, "from")
	if err != nil {
		return err
	}
	to, err := utils.RequiredAddress(body.To, "to")
	if err != nil {
		return err
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}

	receipt, err := wr.ledger.Execute("wrappedTransfer", func(c *builtin.Contracts) error {
		return c.Wrapper.Transfer(from, to, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, amount))
}

func (wr *Wrapper) handleSetDelegatee(w http.ResponseWriter, req *http.Request) error {
	var body DelegateeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.RequiredAddress(body.Caller, "caller")
	if err != nil {
		return err
	}
	delegatee, err := utils.RequiredAddress(body.Delegatee, "delegatee")
	if err != nil {
		return err
	}

	receipt, err := wr.ledger.Execute("wrapperSetDelegatee", func(c *builtin.Contracts) error {
		return c.Wrapper.SetDelegatee(caller, delegatee)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, nil))
}

func (wr *Wrapper) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /wrapper").
		HandlerFunc(utils.WrapHandlerFunc(wr.handleGetInfo))
	sub.Path("/wrap").
		Methods(http.MethodPost).
		Name("POST /wrapper/wrap").
		HandlerFunc(utils.WrapHandlerFunc(wr.handleWrap))
	sub.Path("/unwrap").
		Methods(http.MethodPost).
		Name("POST /wrapper/unwrap").
		HandlerFunc(utils.WrapHandlerFunc(wr.handleUnwrap))
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST /wrapper/transfer").
		HandlerFunc(utils.WrapHandlerFunc(wr.handleTransfer))
	sub.Path("/delegatee").
		Methods(http.MethodPost).
		Name("POST /wrapper/delegatee").
		HandlerFunc(utils.WrapHandlerFunc(wr.handleSetDelegatee))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /wrapper/{address}").
		HandlerFunc(utils.WrapHandlerFunc(wr.handleGetBalance))
}
