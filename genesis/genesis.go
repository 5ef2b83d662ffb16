// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes and applies the initial ledger setup.
package genesis

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/builtin/liquid"
	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/thor"
)

var logger = log.WithContext("pkg", "genesis")

// Config is the user customized genesis.
type Config struct {
	Owner             thor.Address          `yaml:"owner"`
	DefaultDelegatee  thor.Address          `yaml:"defaultDelegatee"`
	ShareScaleFactor  *math.HexOrDecimal256 `yaml:"shareScaleFactor"`
	InitialShareRatio *math.HexOrDecimal256 `yaml:"initialShareRatio"`
	Delegatees        []thor.Address        `yaml:"delegatees"` // deposits opened at genesis
	Disallowed        []thor.Address        `yaml:"disallowed"`
	Accounts          []Account             `yaml:"accounts"`
	Wrapper           *WrapperConfig        `yaml:"wrapper"`
	Faucet            bool                  `yaml:"faucet"` // enables the api token faucet
}

// Account is a token allocation.
type Account struct {
	Address thor.Address          `yaml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance"`
}

// WrapperConfig sets up the wrapped token. Zero fields fall back to the ledger's
// owner and default delegatee, which is also what an absent section means.
type WrapperConfig struct {
	Owner     thor.Address `yaml:"owner"`
	Delegatee thor.Address `yaml:"delegatee"`
}

// Load reads a yaml genesis file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config before anything is written.
func (c *Config) Validate() error {
	if c.Owner.IsZero() {
		return errors.New("owner must be set")
	}
	if c.DefaultDelegatee.IsZero() {
		return errors.New("defaultDelegatee must be set")
	}
	for _, v := range []*math.HexOrDecimal256{c.ShareScaleFactor, c.InitialShareRatio} {
		if v != nil && (*big.Int)(v).Sign() <= 0 {
			return errors.New("share scale factor and initial share ratio must be positive")
		}
	}
	for _, d := range c.Disallowed {
		if d == c.DefaultDelegatee {
			return fmt.Errorf("%v: the default delegatee can not be disallowed", d)
		}
	}
	for _, a := range c.Accounts {
		if a.Balance == nil || (*big.Int)(a.Balance).Sign() < 1 {
			return fmt.Errorf("%v: balance must be a non-zero integer", a.Address)
		}
	}
	return nil
}

// Build applies the config to freshly bound contracts.
func (c *Config) Build(contracts *builtin.Contracts) error {
	if err := c.Validate(); err != nil {
		return err
	}
	supply := new(big.Int)
	for _, a := range c.Accounts {
		if err := contracts.Token.Mint(a.Address, (*big.Int)(a.Balance)); err != nil {
			return errors.WithMessagef(err, "alloc %v", a.Address)
		}
		supply.Add(supply, (*big.Int)(a.Balance))
	}

	if err := contracts.Liquid.Initialize(liquid.Params{
		Owner:             c.Owner,
		DefaultDelegatee:  c.DefaultDelegatee,
		ShareScaleFactor:  (*big.Int)(c.ShareScaleFactor),
		InitialShareRatio: (*big.Int)(c.InitialShareRatio),
	}); err != nil {
		return errors.WithMessage(err, "initialize ledger")
	}
	for _, d := range c.Delegatees {
		if _, err := contracts.Liquid.FetchOrInitializeDepositForDelegatee(d); err != nil {
			return errors.WithMessagef(err, "open deposit %v", d)
		}
	}
	for _, d := range c.Disallowed {
		if err := contracts.Liquid.SetDelegateeAllowed(c.Owner, d, false); err != nil {
			return errors.WithMessagef(err, "disallow %v", d)
		}
	}

	owner, delegatee := c.Owner, c.DefaultDelegatee
	if c.Wrapper != nil {
		if !c.Wrapper.Owner.IsZero() {
			owner = c.Wrapper.Owner
		}
		if !c.Wrapper.Delegatee.IsZero() {
			delegatee = c.Wrapper.Delegatee
		}
	}
	if err := contracts.Wrapper.Initialize(owner, delegatee); err != nil {
		return errors.WithMessage(err, "initialize wrapper")
	}

	logger.Info("genesis applied",
		"owner", c.Owner, "defaultDelegatee", c.DefaultDelegatee, "accounts", len(c.Accounts), "supply", supply)
	return nil
}
