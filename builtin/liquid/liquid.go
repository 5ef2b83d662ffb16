// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquid

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/liquid/builtin/liquid/convert"
	"github.com/vechain/liquid/builtin/liquid/deposits"
	"github.com/vechain/liquid/builtin/liquid/rewards"
	"github.com/vechain/liquid/builtin/liquid/shares"
	"github.com/vechain/liquid/builtin/reverts"
	"github.com/vechain/liquid/builtin/solidity"
	"github.com/vechain/liquid/builtin/staking"
	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/state"
	"github.com/vechain/liquid/thor"
)

var (
	logger = log.WithContext("pkg", "liquid")

	ShareScaleFactor  = solidity.NewConfigVariable("share-scale-factor", thor.DefaultShareScaleFactor)
	InitialShareRatio = solidity.NewConfigVariable("initial-share-ratio", thor.DefaultShareScaleFactor)

	slotOwner            = thor.BytesToBytes32([]byte("owner"))
	slotDefaultDelegatee = thor.BytesToBytes32([]byte("default-delegatee"))
)

// Token is the stakeable token as seen by the ledger.
type Token interface {
	Transfer(from, to thor.Address, amount *big.Int) error
}

// Params configure a ledger at genesis.
type Params struct {
	Owner            thor.Address
	DefaultDelegatee thor.Address
	// ShareScaleFactor defaults to thor.DefaultShareScaleFactor when nil.
	ShareScaleFactor *big.Int
	// InitialShareRatio defaults to the share scale factor when nil.
	InitialShareRatio *big.Int
}

// Liquid implements native methods of the liquid staking ledger.
type Liquid struct {
	sctx  *solidity.Context
	token Token

	owner            *solidity.Address
	defaultDelegatee *solidity.Address

	depositService *deposits.Service
	shareService   *shares.Service
	rewardService  *rewards.Service

	// holders only their controller may debit or re-route
	reserved map[thor.Address]bool
}

// New create a new instance.
func New(addr thor.Address, state *state.State, sink event.Sink, token Token, backend deposits.Backend) *Liquid {
	sctx := solidity.NewContext(addr, state, sink)
	return &Liquid{
		sctx:             sctx,
		token:            token,
		owner:            solidity.NewAddress(sctx, slotOwner),
		defaultDelegatee: solidity.NewAddress(sctx, slotDefaultDelegatee),
		depositService:   deposits.New(sctx, backend),
		shareService:     shares.New(sctx),
		rewardService:    rewards.New(sctx),
		reserved:         make(map[thor.Address]bool),
	}
}

// Address returns the address holding the ledger's tokens.
func (l *Liquid) Address() thor.Address {
	return l.sctx.Address()
}

//
// Setup
//

// Initialize sets owner, default delegatee and the conversion parameters, and
// opens the default deposit. It can only run once.
func (l *Liquid) Initialize(p Params) error {
	current, err := l.owner.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.New("already initialized")
	}
	if p.Owner.IsZero() {
		return reverts.New("owner is the zero address")
	}

	scale := p.ShareScaleFactor
	if scale == nil {
		scale = ShareScaleFactor.Default()
	}
	ratio := p.InitialShareRatio
	if ratio == nil {
		ratio = scale
	}
	if err := ShareScaleFactor.Init(l.sctx, scale); err != nil {
		return err
	}
	if err := InitialShareRatio.Init(l.sctx, ratio); err != nil {
		return err
	}

	l.owner.Set(p.Owner)
	l.defaultDelegatee.Set(p.DefaultDelegatee)
	if _, err := l.depositService.FetchOrInitialize(p.DefaultDelegatee); err != nil {
		return err
	}
	logger.Info("ledger initialized",
		"owner", p.Owner, "defaultDelegatee", p.DefaultDelegatee, "scale", scale, "initialRatio", ratio)
	return nil
}

// Initialized reports whether Initialize ran.
func (l *Liquid) Initialized() (bool, error) {
	owner, err := l.owner.Get()
	if err != nil {
		return false, err
	}
	return !owner.IsZero(), nil
}

func (l *Liquid) Owner() (thor.Address, error) {
	return l.owner.Get()
}

func (l *Liquid) DefaultDelegatee() (thor.Address, error) {
	return l.defaultDelegatee.Get()
}

func (l *Liquid) ShareScaleFactor() (*big.Int, error) {
	return ShareScaleFactor.Get(l.sctx)
}

func (l *Liquid) InitialShareRatio() (*big.Int, error) {
	return InitialShareRatio.Get(l.sctx)
}

func (l *Liquid) converter() (convert.Converter, error) {
	ratio, err := l.InitialShareRatio()
	if err != nil {
		return convert.Converter{}, err
	}
	return convert.New(ratio), nil
}

func (l *Liquid) requireOwner(caller thor.Address) error {
	owner, err := l.owner.Get()
	if err != nil {
		return err
	}
	if owner.IsZero() || caller != owner {
		return &reverts.ErrUnauthorized{Caller: caller}
	}
	return nil
}

// requireUnreserved rejects public debits and re-routes of a reserved holder.
func (l *Liquid) requireUnreserved(holder thor.Address) error {
	if l.reserved[holder] {
		return &reverts.ErrUnauthorized{Caller: holder}
	}
	return nil
}

//
// Getters - no state change
//

// Totals returns total shares and total stake.
func (l *Liquid) Totals() (*shares.Totals, error) {
	return l.shareService.Totals()
}

// SharesOf returns the share balance of holder.
func (l *Liquid) SharesOf(holder thor.Address) (*big.Int, error) {
	h, err := l.shareService.Holder(holder)
	if err != nil {
		return nil, err
	}
	return h.Shares, nil
}

// BalanceOf returns the stake redeemable by holder, derived from its shares.
func (l *Liquid) BalanceOf(holder thor.Address) (*big.Int, error) {
	h, err := l.shareService.Holder(holder)
	if err != nil {
		return nil, err
	}
	totals, err := l.shareService.Totals()
	if err != nil {
		return nil, err
	}
	return convert.StakeForShares(h.Shares, totals.Shares, totals.Stake), nil
}

// SharesForStake converts stake to shares at the current totals.
func (l *Liquid) SharesForStake(stake *big.Int) (*big.Int, error) {
	conv, err := l.converter()
	if err != nil {
		return nil, err
	}
	totals, err := l.shareService.Totals()
	if err != nil {
		return nil, err
	}
	return l.sharesForStake(conv, stake, totals), nil
}

// StakeForShares converts shares to stake at the current totals.
func (l *Liquid) StakeForShares(amount *big.Int) (*big.Int, error) {
	totals, err := l.shareService.Totals()
	if err != nil {
		return nil, err
	}
	return convert.StakeForShares(amount, totals.Shares, totals.Stake), nil
}

// DelegateeForHolder returns the delegatee backing holder, the default one if never chosen.
func (l *Liquid) DelegateeForHolder(holder thor.Address) (thor.Address, error) {
	h, err := l.shareService.Holder(holder)
	if err != nil {
		return thor.Address{}, err
	}
	return l.delegateeOf(h)
}

// DepositIDForHolder returns the deposit backing holder's stake.
func (l *Liquid) DepositIDForHolder(holder thor.Address) (staking.DepositID, error) {
	delegatee, err := l.DelegateeForHolder(holder)
	if err != nil {
		return 0, err
	}
	return l.depositOf(delegatee)
}

// DepositForDelegatee looks up the deposit of delegatee without creating it.
func (l *Liquid) DepositForDelegatee(delegatee thor.Address) (staking.DepositID, bool, error) {
	return l.depositService.DepositForDelegatee(delegatee)
}

// DelegateeAllowed reports whether delegatee can be chosen by holders.
func (l *Liquid) DelegateeAllowed(delegatee thor.Address) (bool, error) {
	return l.depositService.Allowed(delegatee)
}

// Deposit returns the deposit record of id, nil if unknown.
func (l *Liquid) Deposit(id staking.DepositID) (*deposits.Deposit, error) {
	return l.depositService.Deposit(id)
}

// Deposits returns every deposit ordered by id.
func (l *Liquid) Deposits() ([]*deposits.Deposit, error) {
	return l.depositService.Deposits()
}

// RewardDust returns the reward remainder carried to the next distribution.
func (l *Liquid) RewardDust() (*big.Int, error) {
	return l.rewardService.Dust()
}

// RewardsDistributed returns the cumulative reward attributed to deposits.
func (l *Liquid) RewardsDistributed() (*big.Int, error) {
	return l.rewardService.Distributed()
}

//
// Setters - state change
//

// Stake pulls amount of token from holder and mints shares for it, routed to
// the holder's delegatee.
func (l *Liquid) Stake(holder thor.Address, amount *big.Int) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, &reverts.ErrInvalidAmount{Op: "stake"}
	}
	if err := l.requireUnreserved(holder); err != nil {
		return nil, err
	}
	conv, err := l.converter()
	if err != nil {
		return nil, err
	}
	totals, err := l.shareService.Totals()
	if err != nil {
		return nil, err
	}
	minted := l.sharesForStake(conv, amount, totals)
	if minted.Sign() == 0 {
		return nil, &reverts.ErrInvalidAmount{Op: "stake"}
	}

	h, err := l.shareService.Holder(holder)
	if err != nil {
		return nil, err
	}
	delegatee, err := l.delegateeOf(h)
	if err != nil {
		return nil, err
	}
	id, err := l.depositOf(delegatee)
	if err != nil {
		return nil, err
	}

	if err := l.token.Transfer(holder, l.Address(), amount); err != nil {
		return nil, err
	}
	if err := l.depositService.Update(id, amount); err != nil {
		return nil, err
	}
	if err := l.shareService.Mint(holder, minted, amount); err != nil {
		return nil, err
	}

	logger.Debug("staked", "holder", holder, "amount", amount, "shares", minted, "deposit", id)
	l.sctx.Emit(event.Staked, []thor.Address{holder, delegatee}, amount, minted)
	return minted, l.emitBalance(holder)
}

// Unstake burns the shares worth amount and returns the tokens to holder.
// Stake is withdrawn from the holder's deposit first, then from the default deposit.
func (l *Liquid) Unstake(holder thor.Address, amount *big.Int) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, &reverts.ErrInvalidAmount{Op: "unstake"}
	}
	if err := l.requireUnreserved(holder); err != nil {
		return nil, err
	}
	conv, err := l.converter()
	if err != nil {
		return nil, err
	}
	totals, err := l.shareService.Totals()
	if err != nil {
		return nil, err
	}
	h, err := l.shareService.Holder(holder)
	if err != nil {
		return nil, err
	}
	balance := convert.StakeForShares(h.Shares, totals.Shares, totals.Stake)
	if balance.Cmp(amount) < 0 {
		return nil, reverts.InsufficientBalance(holder, balance, amount)
	}
	burned := conv.SharesForStakeUp(amount, totals.Shares, totals.Stake)

	delegatee, err := l.delegateeOf(h)
	if err != nil {
		return nil, err
	}
	id, err := l.depositOf(delegatee)
	if err != nil {
		return nil, err
	}
	draws, err := l.drain(id, 0, amount)
	if err != nil {
		return nil, err
	}
	for _, d := range draws {
		if err := l.depositService.Update(d.id, new(big.Int).Neg(d.amount)); err != nil {
			return nil, err
		}
	}
	if err := l.shareService.Burn(holder, burned, amount); err != nil {
		return nil, err
	}
	if err := l.token.Transfer(l.Address(), holder, amount); err != nil {
		return nil, err
	}

	logger.Debug("unstaked", "holder", holder, "amount", amount, "shares", burned)
	l.sctx.Emit(event.Unstaked, []thor.Address{holder, delegatee}, amount, burned)
	return burned, l.emitBalance(holder)
}

// Transfer moves the shares worth stake from one holder to another. When the
// two holders route to different deposits the backing stake follows.
func (l *Liquid) Transfer(from, to thor.Address, stake *big.Int) (*big.Int, error) {
	if err := l.requireUnreserved(from); err != nil {
		return nil, err
	}
	return l.transfer(from, to, stake)
}

func (l *Liquid) transfer(from, to thor.Address, stake *big.Int) (*big.Int, error) {
	if stake.Sign() < 0 {
		return nil, &reverts.ErrInvalidAmount{Op: "transfer"}
	}
	if to.IsZero() {
		return nil, reverts.New("transfer to the zero address")
	}
	conv, err := l.converter()
	if err != nil {
		return nil, err
	}
	totals, err := l.shareService.Totals()
	if err != nil {
		return nil, err
	}
	src, err := l.shareService.Holder(from)
	if err != nil {
		return nil, err
	}
	balance := convert.StakeForShares(src.Shares, totals.Shares, totals.Stake)
	if balance.Cmp(stake) < 0 {
		return nil, reverts.InsufficientBalance(from, balance, stake)
	}
	moved := l.sharesForStake(conv, stake, totals)
	if err := l.shareService.Transfer(from, to, moved); err != nil {
		return nil, err
	}

	dst, err := l.shareService.Holder(to)
	if err != nil {
		return nil, err
	}
	fromID, err := l.holderDeposit(src)
	if err != nil {
		return nil, err
	}
	toID, err := l.holderDeposit(dst)
	if err != nil {
		return nil, err
	}
	if fromID != toID {
		backing := convert.StakeForShares(moved, totals.Shares, totals.Stake)
		if err := l.moveStake(fromID, toID, backing); err != nil {
			return nil, err
		}
	}

	l.sctx.Emit(event.Transfer, []thor.Address{from, to}, stake, moved)
	if err := l.emitBalance(from); err != nil {
		return nil, err
	}
	return moved, l.emitBalance(to)
}

// TransferShares moves shares between holders. Deposits are left as they are.
func (l *Liquid) TransferShares(from, to thor.Address, amount *big.Int) error {
	if err := l.requireUnreserved(from); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.New("transfer to the zero address")
	}
	if err := l.shareService.Transfer(from, to, amount); err != nil {
		return err
	}
	l.sctx.Emit(event.SharesTransfer, []thor.Address{from, to}, amount)
	return nil
}

// SetDelegatee routes the holder's whole stake to delegatee, moving it from the
// old deposit to the new one. Shares are unchanged.
func (l *Liquid) SetDelegatee(holder, delegatee thor.Address) error {
	if err := l.requireUnreserved(holder); err != nil {
		return err
	}
	return l.setDelegatee(holder, delegatee)
}

func (l *Liquid) setDelegatee(holder, delegatee thor.Address) error {
	if err := l.depositService.Validate(delegatee); err != nil {
		return err
	}
	h, err := l.shareService.Holder(holder)
	if err != nil {
		return err
	}
	old, err := l.delegateeOf(h)
	if err != nil {
		return err
	}
	totals, err := l.shareService.Totals()
	if err != nil {
		return err
	}
	amount := convert.StakeForShares(h.Shares, totals.Shares, totals.Stake)

	oldID, err := l.depositOf(old)
	if err != nil {
		return err
	}
	newID, err := l.depositService.FetchOrInitialize(delegatee)
	if err != nil {
		return err
	}
	if oldID != newID && amount.Sign() > 0 {
		draws, err := l.drain(oldID, newID, amount)
		if err != nil {
			return err
		}
		for _, d := range draws {
			if d.id == oldID {
				if _, err := l.depositService.Reassign(old, delegatee, d.amount); err != nil {
					return err
				}
				continue
			}
			if err := l.depositService.Move(d.id, newID, d.amount); err != nil {
				return err
			}
		}
	}
	if err := l.shareService.SetDelegatee(holder, delegatee); err != nil {
		return err
	}

	logger.Debug("delegatee assigned", "holder", holder, "old", old, "new", delegatee, "amount", amount)
	l.sctx.Emit(event.DelegateeAssigned, []thor.Address{holder, old, delegatee}, amount)
	return nil
}

// DistributeReward pulls amount from source and attributes it, plus the
// carried remainder, to the deposits in proportion to their stake.
func (l *Liquid) DistributeReward(source thor.Address, amount *big.Int) (*rewards.Plan, error) {
	if amount.Sign() <= 0 {
		return nil, &reverts.ErrInvalidAmount{Op: "distributeReward"}
	}
	ds, err := l.depositService.Deposits()
	if err != nil {
		return nil, err
	}
	plan, err := l.rewardService.Plan(amount, ds)
	if err != nil {
		return nil, err
	}
	if err := l.token.Transfer(source, l.Address(), amount); err != nil {
		return nil, err
	}
	for _, a := range plan.Allocations {
		if err := l.depositService.Update(a.ID, a.Amount); err != nil {
			return nil, err
		}
	}
	if err := l.shareService.AddStake(plan.Attributed); err != nil {
		return nil, err
	}
	if err := l.rewardService.Settle(plan); err != nil {
		return nil, err
	}

	logger.Debug("reward distributed",
		"source", source, "amount", amount, "attributed", plan.Attributed, "remainder", plan.Remainder)
	l.sctx.Emit(event.RewardDistributed, []thor.Address{source}, amount, plan.Attributed, plan.Remainder)
	return plan, nil
}

// FetchOrInitializeDepositForDelegatee returns the deposit of delegatee, creating it when needed.
func (l *Liquid) FetchOrInitializeDepositForDelegatee(delegatee thor.Address) (staking.DepositID, error) {
	return l.depositService.FetchOrInitialize(delegatee)
}

// SetDelegateeAllowed flags delegatee as a valid or invalid routing target. Owner only.
func (l *Liquid) SetDelegateeAllowed(caller, delegatee thor.Address, allowed bool) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	def, err := l.defaultDelegatee.Get()
	if err != nil {
		return err
	}
	if !allowed && delegatee == def {
		return &reverts.ErrInvalidDelegatee{Delegatee: delegatee}
	}
	if err := l.depositService.SetAllowed(delegatee, allowed); err != nil {
		return err
	}
	flag := new(big.Int)
	if allowed {
		flag.SetInt64(1)
	}
	l.sctx.Emit(event.DelegateeAllowed, []thor.Address{delegatee}, flag)
	return nil
}

//
// internals
//

// sharesForStake bootstraps from the initial ratio while no shares exist, so
// stake left behind by rounding never blocks new mints.
func (l *Liquid) sharesForStake(conv convert.Converter, stake *big.Int, totals *shares.Totals) *big.Int {
	if totals.Shares.Sign() == 0 {
		return conv.SharesForStake(stake, totals.Shares, new(big.Int))
	}
	return conv.SharesForStake(stake, totals.Shares, totals.Stake)
}

func (l *Liquid) delegateeOf(h *shares.Holder) (thor.Address, error) {
	if !h.Delegatee.IsZero() {
		return h.Delegatee, nil
	}
	return l.defaultDelegatee.Get()
}

func (l *Liquid) depositOf(delegatee thor.Address) (staking.DepositID, error) {
	id, ok, err := l.depositService.DepositForDelegatee(delegatee)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.Errorf("no deposit for delegatee %v", delegatee)
	}
	return id, nil
}

func (l *Liquid) holderDeposit(h *shares.Holder) (staking.DepositID, error) {
	delegatee, err := l.delegateeOf(h)
	if err != nil {
		return 0, err
	}
	return l.depositOf(delegatee)
}

func (l *Liquid) moveStake(from, to staking.DepositID, amount *big.Int) error {
	draws, err := l.drain(from, to, amount)
	if err != nil {
		return err
	}
	for _, d := range draws {
		if err := l.depositService.Move(d.id, to, d.amount); err != nil {
			return err
		}
	}
	return nil
}

func (l *Liquid) emitBalance(holder thor.Address) error {
	balance, err := l.BalanceOf(holder)
	if err != nil {
		return err
	}
	l.sctx.Emit(event.BalanceChanged, []thor.Address{holder}, balance)
	return nil
}
