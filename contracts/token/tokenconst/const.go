package tokenconst

const (
	// UnitScale is the number of ledger token units minted per purchased gram
	// of the backing asset. With 7 decimals one gram maps to one whole token.
	UnitScale = 10_000_000

	// MarkupFactor is the exchange fee schedule baked into the mint price:
	// the buyer pays MarkupFactor parts per 1000 of the raw spot price, i.e.
	// a 2.7% markup. Changing it is a protocol parameter change and requires
	// a contract version bump, never a silent edit.
	MarkupFactor = 1000 + 27

	// MaxBalance caps a single account balance in ledger token units. Credits
	// pushing a balance above the cap are rejected.
	MaxBalance = 1<<63 - 1

	// ErrNotInitialized is returned by methods requiring the administrator
	// before Initialize has been called.
	ErrNotInitialized = "not initialized"
	// ErrAlreadyInitialized is returned on a repeated Initialize call.
	ErrAlreadyInitialized = "already initialized"
	// ErrNegativeAmount is returned on any operation with a negative amount.
	ErrNegativeAmount = "negative amount is not allowed"
	// ErrInvalidDecimals is returned by Initialize when decimals exceed 8 bits.
	ErrInvalidDecimals = "decimals must fit in 8 bits"
	// ErrInsufficientBalance is returned on spending more than the account holds.
	ErrInsufficientBalance = "insufficient balance"
	// ErrInsufficientAllowance is returned on spending more than approved.
	ErrInsufficientAllowance = "insufficient allowance"
	// ErrAllowanceExpired is returned on spending an allowance past its bound.
	ErrAllowanceExpired = "allowance expired"
	// ErrBalanceOverflow is returned on credits exceeding MaxBalance.
	ErrBalanceOverflow = "balance overflow"
	// ErrPaymentFailed is returned when the payment token transfer inside Mint
	// does not succeed.
	ErrPaymentFailed = "payment transfer failed"
)
