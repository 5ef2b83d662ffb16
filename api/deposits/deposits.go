// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposits

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/builtin/staking"
	"github.com/vechain/liquid/ledger"
)

type Deposits struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Deposits {
	return &Deposits{ledger}
}

func (d *Deposits) handleGetDeposits(w http.ResponseWriter, _ *http.Request) error {
	var out []*Deposit
	err := d.ledger.View(func(c *builtin.Contracts) error {
		ds, err := c.Liquid.Deposits()
		if err != nil {
			return err
		}
		out = make([]*Deposit, 0, len(ds))
		for _, dep := range ds {
			allowed, err := c.Liquid.DelegateeAllowed(dep.Delegatee)
			if err != nil {
				return err
			}
			out = append(out, convertDeposit(dep, allowed))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (d *Deposits) handleGetDeposit(w http.ResponseWriter, req *http.Request) error {
	delegatee, err := utils.AddressVar(req, "delegatee")
	if err != nil {
		return err
	}
	var out *Deposit
	err = d.ledger.View(func(c *builtin.Contracts) error {
		id, ok, err := c.Liquid.DepositForDelegatee(delegatee)
		if err != nil || !ok {
			return err
		}
		dep, err := c.Liquid.Deposit(id)
		if err != nil || dep == nil {
			return err
		}
		allowed, err := c.Liquid.DelegateeAllowed(delegatee)
		if err != nil {
			return err
		}
		out = convertDeposit(dep, allowed)
		return nil
	})
	if err != nil {
		return err
	}
	if out == nil {
		return utils.NotFound(fmt.Errorf("no deposit for delegatee %v", delegatee))
	}
	return utils.WriteJSON(w, out)
}

func (d *Deposits) handleInitDeposit(w http.ResponseWriter, req *http.Request) error {
	delegatee, err := utils.AddressVar(req, "delegatee")
	if err != nil {
		return err
	}
	var id staking.DepositID
	receipt, err := d.ledger.Execute("fetchOrInitializeDeposit", func(c *builtin.Contracts) (err error) {
		id, err = c.Liquid.FetchOrInitializeDepositForDelegatee(delegatee)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &InitResult{
		ID:      uint64(id),
		Receipt: utils.ConvertReceipt(receipt, nil),
	})
}

func (d *Deposits) handleSetAllowed(w http.ResponseWriter, req *http.Request) error {
	delegatee, err := utils.AddressVar(req, "delegatee")
	if err != nil {
		return err
	}
	var body AllowedRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := utils.RequiredAddress(body.Caller, "caller")
	if err != nil {
		return err
	}
	if body.Allowed == nil {
		return utils.BadRequest(errors.New("allowed: required"))
	}

	receipt, err := d.ledger.Execute("setDelegateeAllowed", func(c *builtin.Contracts) error {
		return c.Liquid.SetDelegateeAllowed(caller, delegatee, *body.Allowed)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, nil))
}

func (d *Deposits) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /deposits").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetDeposits))
	sub.Path("/{delegatee}").
		Methods(http.MethodGet).
		Name("GET /deposits/{delegatee}").
		HandlerFunc(utils.WrapHandlerFunc(d.handleGetDeposit))
	sub.Path("/{delegatee}").
		Methods(http.MethodPost).
		Name("POST /deposits/{delegatee}").
		HandlerFunc(utils.WrapHandlerFunc(d.handleInitDeposit))
	sub.Path("/{delegatee}/allowed").
		Methods(http.MethodPost).
		Name("POST /deposits/{delegatee}/allowed").
		HandlerFunc(utils.WrapHandlerFunc(d.handleSetAllowed))
}
