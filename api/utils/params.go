// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/liquid/thor"
)

// AddressVar parses the named path variable as an address.
func AddressVar(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Amount reads a required amount field of a request body.
func Amount(v *math.HexOrDecimal256, name string) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.New(name + ": required"))
	}
	amount := (*big.Int)(v)
	if amount.Sign() < 0 {
		return nil, BadRequest(errors.New(name + ": negative"))
	}
	return new(big.Int).Set(amount), nil
}

// RequiredAddress reads a required address field of a request body.
func RequiredAddress(v *thor.Address, name string) (thor.Address, error) {
	if v == nil {
		return thor.Address{}, BadRequest(errors.New(name + ": required"))
	}
	return *v, nil
}

// Hex256 converts an amount for a response.
func Hex256(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}
