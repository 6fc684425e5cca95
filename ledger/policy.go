package ledger

import (
	"fmt"

	"github.com/holiman/uint256"
)

// FeeDenominator is the basis-point scale: a fee rate of 10000 is 100%.
const FeeDenominator = 10000

// TransferPolicy owns the blacklist and the send-fee rate. It validates
// transfer legality and computes the effective transferable amount before
// delegating balance mutation to the SupplyLedger.
//
// TransferPolicy is not safe for concurrent use; the Ledger facade serializes
// access to it.
type TransferPolicy struct {
	roles  *RoleRegistry
	supply *SupplyLedger

	blacklist  map[Address]struct{}
	feeRateBps uint64
}

func newTransferPolicy(roles *RoleRegistry, supply *SupplyLedger) *TransferPolicy {
	return &TransferPolicy{
		roles:     roles,
		supply:    supply,
		blacklist: make(map[Address]struct{}),
	}
}

// IsBlacklisted reports whether account may not send or receive value.
func (p *TransferPolicy) IsBlacklisted(account Address) bool {
	_, ok := p.blacklist[account]
	return ok
}

// FeeRate returns the send-fee rate in basis points.
func (p *TransferPolicy) FeeRate() uint64 {
	return p.feeRateBps
}

// Blacklisted returns every blacklisted account.
func (p *TransferPolicy) Blacklisted() []Address {
	out := make([]Address, 0, len(p.blacklist))
	for a := range p.blacklist {
		out = append(out, a)
	}
	return out
}

// SetBlacklist sets the blacklist membership of account. The caller must hold
// ADMIN. Idempotent.
func (p *TransferPolicy) SetBlacklist(account Address, status bool, caller Address) error {
	if !p.roles.HasRole(RoleAdmin, caller) {
		return fmt.Errorf("%w: %s does not hold %s", ErrUnauthorized, caller, RoleAdmin)
	}
	if status {
		p.blacklist[account] = struct{}{}
	} else {
		delete(p.blacklist, account)
	}
	return nil
}

// SetSendFee sets the fee rate applied to direct transfers. The caller must
// hold ADMIN; rates above 10000 basis points are rejected.
func (p *TransferPolicy) SetSendFee(rateBps uint64, caller Address) error {
	if !p.roles.HasRole(RoleAdmin, caller) {
		return fmt.Errorf("%w: %s does not hold %s", ErrUnauthorized, caller, RoleAdmin)
	}
	if rateBps > FeeDenominator {
		return fmt.Errorf("%w: %d bps > %d", ErrFeeExceedsMax, rateBps, FeeDenominator)
	}
	p.feeRateBps = rateBps
	return nil
}

// Fee returns floor(amount * feeRateBps / 10000).
func (p *TransferPolicy) Fee(amount *uint256.Int) (*uint256.Int, error) {
	fee := new(uint256.Int)
	if _, overflow := fee.MulOverflow(amount, uint256.NewInt(p.feeRateBps)); overflow {
		return nil, fmt.Errorf("fee: %w", ErrArithmeticOverflow)
	}
	return fee.Div(fee, uint256.NewInt(FeeDenominator)), nil
}

// executeTransfer runs the fee-bearing transfer path used for direct,
// sender-initiated transfers. The fee is burned from the sender, shrinking
// total supply, and amount-fee is credited to the recipient: the sender loses
// amount in total. Returns the burned fee.
//
// Delegated transfers deliberately bypass the fee; see
// executeDelegatedTransfer.
func (p *TransferPolicy) executeTransfer(from, to Address, amount *uint256.Int) (*uint256.Int, error) {
	if err := p.checkBlacklist(from, to); err != nil {
		return nil, err
	}

	fee, err := p.Fee(amount)
	if err != nil {
		return nil, err
	}

	// Validate the full debit up front so neither step below can fail and
	// leave a partial mutation behind. fee <= amount always holds since the
	// rate is capped at 10000 bps.
	if balance := p.supply.BalanceOf(from); balance.Lt(amount) {
		return nil, fmt.Errorf("%w: account %s holds %s, needs %s",
			ErrInsufficientBalance, from, balance.Dec(), amount.Dec())
	}

	if !fee.IsZero() {
		if err := p.supply.burn(from, fee); err != nil {
			return nil, err
		}
	}

	net := new(uint256.Int).Sub(amount, fee)
	if err := p.supply.rawTransfer(from, to, net); err != nil {
		return nil, err
	}
	return fee, nil
}

// executeDelegatedTransfer runs the fee-free path used for allowance-based
// transfers. Same blacklist rules, no fee deduction.
func (p *TransferPolicy) executeDelegatedTransfer(from, to Address, amount *uint256.Int) error {
	if err := p.checkBlacklist(from, to); err != nil {
		return err
	}
	return p.supply.rawTransfer(from, to, amount)
}

func (p *TransferPolicy) checkBlacklist(from, to Address) error {
	if p.IsBlacklisted(from) {
		return fmt.Errorf("%w: %s", ErrSenderBlacklisted, from)
	}
	if p.IsBlacklisted(to) {
		return fmt.Errorf("%w: %s", ErrRecipientBlacklisted, to)
	}
	return nil
}
