package ledger

import "errors"

// The full set of failure kinds the ledger reports. Every failure leaves
// state untouched; callers decide whether to resubmit.
var (
	// ErrInvalidInitParams reports a null account identifier, either in the
	// construction parameters or as an argument to an operation.
	ErrInvalidInitParams = errors.New("ledger: invalid init params")

	// ErrUnauthorized reports a caller that does not hold the role, or the
	// allowance, that the operation requires.
	ErrUnauthorized = errors.New("ledger: unauthorized")

	// ErrSupplyCapExceeded reports a mint that would push total supply above
	// a nonzero max total supply.
	ErrSupplyCapExceeded = errors.New("ledger: supply cap exceeded")

	// ErrCapBelowCirculatingSupply reports a cap change below the current
	// total supply.
	ErrCapBelowCirculatingSupply = errors.New("ledger: cap below circulating supply")

	// ErrInsufficientBalance reports a debit larger than the account balance.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrSenderBlacklisted reports a transfer from a blacklisted account.
	ErrSenderBlacklisted = errors.New("ledger: sender blacklisted")

	// ErrRecipientBlacklisted reports a transfer to a blacklisted account.
	ErrRecipientBlacklisted = errors.New("ledger: recipient blacklisted")

	// ErrFeeExceedsMax reports a fee rate above 10000 basis points.
	ErrFeeExceedsMax = errors.New("ledger: fee exceeds max")

	// ErrArithmeticOverflow reports an addition or multiplication that would
	// wrap the unsigned 256-bit range.
	ErrArithmeticOverflow = errors.New("ledger: arithmetic overflow")
)
