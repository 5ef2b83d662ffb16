// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/thor"
)

// ConfigVariable is a contract parameter written once at initialization and
// immutable afterwards. Reads fall back to the default until it is set.
type ConfigVariable struct {
	slot         thor.Bytes32
	name         string
	defaultValue *big.Int
}

func NewConfigVariable(name string, defaultValue *big.Int) *ConfigVariable {
	return &ConfigVariable{
		slot:         thor.BytesToBytes32([]byte(name)),
		name:         name,
		defaultValue: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Default() *big.Int {
	return new(big.Int).Set(c.defaultValue)
}

// Get returns the stored value, or the default when never set.
func (c *ConfigVariable) Get(ctx *Context) (*big.Int, error) {
	value, err := NewUint256(ctx, c.slot).Get()
	if err != nil {
		return nil, err
	}
	if value.Sign() == 0 {
		return c.Default(), nil
	}
	return value, nil
}

// Init stores value. It fails if the variable was already set or value is not positive.
func (c *ConfigVariable) Init(ctx *Context, value *big.Int) error {
	slot := NewUint256(ctx, c.slot)
	current, err := slot.Get()
	if err != nil {
		return err
	}
	if current.Sign() != 0 {
		return errors.Errorf("config %s is immutable", c.name)
	}
	if value == nil || value.Sign() <= 0 {
		return errors.Errorf("config %s must be positive", c.name)
	}
	log.Debug("config value set", "name", c.name, "value", value)
	return slot.Set(value)
}
