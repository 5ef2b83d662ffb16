// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/liquid/api/utils"
	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/thor"
)

// MaxFaucetAmount caps a single faucet mint.
var MaxFaucetAmount = new(big.Int).Mul(big.NewInt(10_000), thor.Ether)

type Balance struct {
	Address thor.Address          `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Supply struct {
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type FaucetRequest struct {
	To     *thor.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Tokens struct {
	ledger *ledger.Ledger
	faucet bool
}

// New creates the token api. The faucet endpoint only mints when faucet is set.
func New(ledger *ledger.Ledger, faucet bool) *Tokens {
	return &Tokens{ledger, faucet}
}

func (t *Tokens) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	var supply *big.Int
	err := t.ledger.View(func(c *builtin.Contracts) (err error) {
		supply, err = c.Token.TotalSupply()
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Supply{TotalSupply: utils.Hex256(supply)})
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var balance *big.Int
	err = t.ledger.View(func(c *builtin.Contracts) (err error) {
		balance, err = c.Token.BalanceOf(addr)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Address: addr, Balance: utils.Hex256(balance)})
}

func (t *Tokens) handleFaucet(w http.ResponseWriter, req *http.Request) error {
	if !t.faucet {
		return utils.Forbidden(errors.New("faucet disabled"))
	}
	var body FaucetRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	to, err := utils.RequiredAddress(body.To, "to")
	if err != nil {
		return err
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	if amount.Cmp(MaxFaucetAmount) > 0 {
		return utils.Forbidden(fmt.Errorf("amount exceeds the maximum allowed value of %v", MaxFaucetAmount))
	}

	receipt, err := t.ledger.Execute("faucet", func(c *builtin.Contracts) error {
		return c.Token.Mint(to, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt, amount))
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /tokens").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetSupply))
	sub.Path("/faucet").
		Methods(http.MethodPost).
		Name("POST /tokens/faucet").
		HandlerFunc(utils.WrapHandlerFunc(t.handleFaucet))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
}
