package token

import (
	"github.com/aurumlabs/aurum-contract/common"
	"github.com/aurumlabs/aurum-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Metadata holds token presentation info fixed at Initialize.
	Metadata struct {
		// Token name
		Name string
		// Ticker symbol
		Symbol string
		// Amount of decimals
		Decimals int
	}

	// AllowanceEntry is a capped, height-bounded permission for a spender to
	// move an owner's tokens.
	AllowanceEntry struct {
		// Remaining approved amount
		Amount int
		// Block index after which the allowance is not spendable
		ValidUntil int
	}
)

const (
	adminKey        = 'A'
	metadataKey     = 'M'
	recipientKey    = 'R'
	paymentTokenKey = 'P'
	spotPriceKey    = 'S'
	totalSupplyKey  = 'T'

	accountPrefix   = 'a'
	allowancePrefix = 'l'

	errInvalidAccount = "invalid account script hash"
)

// nilHash160 is a typed nil account used in notifications for the missing
// side of a mint or burn, so the emitted parameter matches the Hash160 type
// declared in the manifest.
var nilHash160 interop.Hash160

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)
		common.CheckVersion(version)
		return
	}

	runtime.Log("aurum token contract deployed")
}

// Initialize sets the administrator, token metadata and exchange
// configuration. It must be the first call against a fresh contract and
// panics on repetition. Note that every stored entry of this contract is
// leased (see common.GetLeased): an instance left untouched long enough for
// the admin entry to lapse is indistinguishable from a fresh one.
func Initialize(admin interop.Hash160, decimals int, name, symbol string, recipient, paymentToken interop.Hash160, price int) {
	ctx := storage.GetContext()
	if common.GetLeased(ctx, adminKey) != nil {
		panic(tokenconst.ErrAlreadyInitialized)
	}

	checkAccount(admin)
	checkAccount(recipient)
	checkAccount(paymentToken)
	if decimals < 0 || decimals > 255 {
		panic(tokenconst.ErrInvalidDecimals)
	}
	checkNonNegative(price)

	common.PutLeased(ctx, adminKey, admin)
	common.PutLeased(ctx, metadataKey, Metadata{
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	})
	common.PutLeased(ctx, paymentTokenKey, paymentToken)
	common.PutLeased(ctx, recipientKey, recipient)
	common.PutLeased(ctx, spotPriceKey, price)

	runtime.Log("aurum token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract administrator.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetContext()
	admin := readAdmin(ctx)
	common.CheckAdminWitness(admin)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("aurum token contract updated")
}

// Name returns the token name set at Initialize.
func Name() string {
	ctx := storage.GetContext()
	return readMetadata(ctx).Name
}

// Symbol returns the token ticker symbol set at Initialize.
func Symbol() string {
	ctx := storage.GetContext()
	return readMetadata(ctx).Symbol
}

// Decimals returns precision of token balances.
func Decimals() int {
	ctx := storage.GetContext()
	return readMetadata(ctx).Decimals
}

// TotalSupply returns the amount of token units in circulation: everything
// minted minus everything burned.
func TotalSupply() int {
	ctx := storage.GetContext()
	return readSupply(ctx)
}

// BalanceOf returns the token balance of the specified account, 0 for
// accounts that have none (or whose balance entry lease has lapsed).
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetContext()
	return readBalance(ctx, account)
}

// Allowance returns the amount spender is still approved to move on behalf
// of owner. It reports 0 once the allowance bound has passed.
func Allowance(owner, spender interop.Hash160) int {
	ctx := storage.GetContext()
	a := readAllowance(ctx, owner, spender)
	if a.Amount > 0 && ledger.CurrentIndex() > a.ValidUntil {
		return 0
	}
	return a.Amount
}

// Approve sets the allowance of spender over owner's tokens to exactly
// amount, spendable until validUntil block index. It overwrites any previous
// allowance, it never accumulates; approving 0 revokes. It can be invoked
// only by the owner.
//
// It produces Approval notification.
func Approve(from, spender interop.Hash160, amount, validUntil int) {
	checkAccount(from)
	checkAccount(spender)
	common.CheckOwnerWitness(from)
	checkNonNegative(amount)

	ctx := storage.GetContext()
	writeAllowance(ctx, from, spender, amount, validUntil)
	runtime.Notify("Approval", from, spender, amount, validUntil)
}

// Transfer moves amount of tokens from one account to another. It can be
// invoked only by the owner of the debited account.
//
// It produces Transfer notification.
func Transfer(from, to interop.Hash160, amount int) {
	checkAccount(from)
	checkAccount(to)
	common.CheckOwnerWitness(from)
	checkNonNegative(amount)

	ctx := storage.GetContext()
	spendBalance(ctx, from, amount)
	receiveBalance(ctx, to, amount)
	runtime.Notify("Transfer", from, to, amount)
}

// TransferFrom moves amount of tokens from one account to another on behalf
// of the owner, spending the spender's allowance. It can be invoked only by
// the spender.
//
// It produces Transfer notification.
func TransferFrom(spender, from, to interop.Hash160, amount int) {
	checkAccount(spender)
	checkAccount(from)
	checkAccount(to)
	common.CheckOwnerWitness(spender)
	checkNonNegative(amount)

	ctx := storage.GetContext()
	spendAllowance(ctx, from, spender, amount)
	spendBalance(ctx, from, amount)
	receiveBalance(ctx, to, amount)
	runtime.Notify("Transfer", from, to, amount)
}

// Burn destroys amount of tokens on the specified account, decreasing total
// supply. It can be invoked only by the account owner.
//
// It produces Transfer and Burn notifications.
func Burn(from interop.Hash160, amount int) {
	checkAccount(from)
	common.CheckOwnerWitness(from)
	checkNonNegative(amount)

	ctx := storage.GetContext()
	spendBalance(ctx, from, amount)
	decreaseSupply(ctx, amount)
	runtime.Notify("Transfer", from, nilHash160, amount)
	runtime.Notify("Burn", from, amount)
}

// BurnFrom destroys amount of tokens on the owner's account on behalf of the
// owner, spending the spender's allowance. It can be invoked only by the
// spender.
//
// It produces Transfer and Burn notifications.
func BurnFrom(spender, from interop.Hash160, amount int) {
	checkAccount(spender)
	checkAccount(from)
	common.CheckOwnerWitness(spender)
	checkNonNegative(amount)

	ctx := storage.GetContext()
	spendAllowance(ctx, from, spender, amount)
	spendBalance(ctx, from, amount)
	decreaseSupply(ctx, amount)
	runtime.Notify("Transfer", from, nilHash160, amount)
	runtime.Notify("Burn", from, amount)
}

// Mint exchanges the configured payment token for freshly minted ledger
// tokens: the buyer pays MarkupFactor * purchasedGrams * spot price of the
// payment token to the configured recipient and is credited
// purchasedGrams * UnitScale token units. It can be invoked only by the
// buyer.
//
// The payment leg settles first and is irreversible: if crediting the ledger
// failed afterwards (e.g. on balance overflow), the payment would not be
// refunded.
//
// It produces Transfer and Mint notifications.
func Mint(to interop.Hash160, purchasedGrams int) {
	checkNonNegative(purchasedGrams)
	checkAccount(to)

	ctx := storage.GetContext()
	admin := readAdmin(ctx)
	common.CheckOwnerWitness(to)

	paymentToken := readPaymentTokenAddress(ctx)
	recipient := readRecipientAddress(ctx)
	spotPrice := readSpotPricePerGram(ctx)

	tokens := purchasedGrams * tokenconst.UnitScale
	totalPrice := tokenconst.MarkupFactor * purchasedGrams * spotPrice

	ok := contract.Call(paymentToken, "transfer", contract.All,
		to, recipient, totalPrice, nil).(bool)
	if !ok {
		panic(tokenconst.ErrPaymentFailed)
	}

	receiveBalance(ctx, to, tokens)
	increaseSupply(ctx, tokens)

	runtime.Notify("Transfer", nilHash160, to, tokens)
	runtime.Notify("Mint", admin, to, tokens)
}

// Admin returns the current contract administrator.
func Admin() interop.Hash160 {
	ctx := storage.GetContext()
	return readAdmin(ctx)
}

// SetAdmin replaces the contract administrator. It can be invoked only by
// the current administrator, not the new one.
//
// It produces SetAdmin notification carrying old and new administrator.
func SetAdmin(newAdmin interop.Hash160) {
	checkAccount(newAdmin)

	ctx := storage.GetContext()
	admin := readAdmin(ctx)
	common.CheckAdminWitness(admin)

	common.PutLeased(ctx, adminKey, newAdmin)
	runtime.Notify("SetAdmin", admin, newAdmin)
}

// RecipientAddress returns the account receiving mint payments.
func RecipientAddress() interop.Hash160 {
	ctx := storage.GetContext()
	return readRecipientAddress(ctx)
}

// SetRecipientAddress replaces the account receiving mint payments. It can
// be invoked only by the administrator.
func SetRecipientAddress(newRecipient interop.Hash160) {
	checkAccount(newRecipient)

	ctx := storage.GetContext()
	common.CheckAdminWitness(readAdmin(ctx))
	common.PutLeased(ctx, recipientKey, newRecipient)
}

// PaymentTokenAddress returns the hash of the NEP-17 contract accepted as
// mint payment.
func PaymentTokenAddress() interop.Hash160 {
	ctx := storage.GetContext()
	return readPaymentTokenAddress(ctx)
}

// SetPaymentTokenAddress replaces the NEP-17 contract accepted as mint
// payment. It can be invoked only by the administrator.
func SetPaymentTokenAddress(newToken interop.Hash160) {
	checkAccount(newToken)

	ctx := storage.GetContext()
	common.CheckAdminWitness(readAdmin(ctx))
	common.PutLeased(ctx, paymentTokenKey, newToken)
}

// SpotPricePerGram returns the configured payment token price of one gram of
// the backing asset.
func SpotPricePerGram() int {
	ctx := storage.GetContext()
	return readSpotPricePerGram(ctx)
}

// SetSpotPricePerGram replaces the payment token price of one gram of the
// backing asset. It can be invoked only by the administrator.
func SetSpotPricePerGram(price int) {
	checkNonNegative(price)

	ctx := storage.GetContext()
	common.CheckAdminWitness(readAdmin(ctx))
	common.PutLeased(ctx, spotPriceKey, price)
}

// Holders returns an iterator over the accounts that have a balance entry.
// Listing is advisory: accounts whose balance entry lease has already lapsed
// still appear until the entry is overwritten.
func Holders() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(),
		[]byte{accountPrefix}, storage.KeysOnly|storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkNonNegative(amount int) {
	if amount < 0 {
		panic(tokenconst.ErrNegativeAmount)
	}
}

func checkAccount(acc interop.Hash160) {
	if len(acc) != interop.Hash160Len {
		panic(errInvalidAccount)
	}
}

func accountKey(acc interop.Hash160) []byte {
	return append([]byte{accountPrefix}, acc...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	k := append([]byte{allowancePrefix}, owner...)
	return append(k, spender...)
}

func readAdmin(ctx storage.Context) interop.Hash160 {
	a := common.GetLeased(ctx, adminKey)
	if a == nil {
		panic(tokenconst.ErrNotInitialized)
	}
	// The explicit conversion keeps the hash in its canonical ByteString
	// representation: a bare type assertion would make the compiler convert
	// it to Buffer.
	return interop.Hash160(a.(interop.Hash160))
}

func readMetadata(ctx storage.Context) Metadata {
	m := common.GetLeased(ctx, metadataKey)
	if m == nil {
		panic(tokenconst.ErrNotInitialized)
	}
	return m.(Metadata)
}

func readRecipientAddress(ctx storage.Context) interop.Hash160 {
	r := common.GetLeased(ctx, recipientKey)
	if r == nil {
		panic(tokenconst.ErrNotInitialized)
	}
	// See readAdmin for the conversion rationale.
	return interop.Hash160(r.(interop.Hash160))
}

func readPaymentTokenAddress(ctx storage.Context) interop.Hash160 {
	p := common.GetLeased(ctx, paymentTokenKey)
	if p == nil {
		panic(tokenconst.ErrNotInitialized)
	}
	// See readAdmin for the conversion rationale.
	return interop.Hash160(p.(interop.Hash160))
}

func readSpotPricePerGram(ctx storage.Context) int {
	p := common.GetLeased(ctx, spotPriceKey)
	if p == nil {
		panic(tokenconst.ErrNotInitialized)
	}
	return p.(int)
}

func readSupply(ctx storage.Context) int {
	s := common.GetLeased(ctx, totalSupplyKey)
	if s == nil {
		return 0
	}
	return s.(int)
}

func increaseSupply(ctx storage.Context, amount int) {
	common.PutLeased(ctx, totalSupplyKey, readSupply(ctx)+amount)
}

func decreaseSupply(ctx storage.Context, amount int) {
	supply := readSupply(ctx)
	if supply < amount {
		panic("negative supply after burn")
	}
	common.PutLeased(ctx, totalSupplyKey, supply-amount)
}

func readBalance(ctx storage.Context, account interop.Hash160) int {
	b := common.GetLeased(ctx, accountKey(account))
	if b == nil {
		return 0
	}
	return b.(int)
}

// receiveBalance credits amount to the account, the only way balances grow.
// A zero credit to an empty account leaves no entry behind, matching
// spendBalance's delete-on-zero convention.
func receiveBalance(ctx storage.Context, account interop.Hash160, amount int) {
	checkNonNegative(amount)

	balance := readBalance(ctx, account) + amount
	if balance == 0 {
		return
	}
	if balance > tokenconst.MaxBalance {
		panic(tokenconst.ErrBalanceOverflow)
	}
	common.PutLeased(ctx, accountKey(account), balance)
}

// spendBalance debits amount from the account, the only way balances shrink.
// A fully spent balance entry is deleted rather than kept at zero.
func spendBalance(ctx storage.Context, account interop.Hash160, amount int) {
	checkNonNegative(amount)

	balance := readBalance(ctx, account)
	if amount > balance {
		panic(tokenconst.ErrInsufficientBalance)
	}
	if amount == balance {
		common.DeleteLeased(ctx, accountKey(account))
		return
	}
	common.PutLeased(ctx, accountKey(account), balance-amount)
}

func readAllowance(ctx storage.Context, owner, spender interop.Hash160) AllowanceEntry {
	a := common.GetLeased(ctx, allowanceKey(owner, spender))
	if a == nil {
		return AllowanceEntry{}
	}
	return a.(AllowanceEntry)
}

// writeAllowance overwrites the allowance, a zero amount deletes the entry.
func writeAllowance(ctx storage.Context, owner, spender interop.Hash160, amount, validUntil int) {
	checkNonNegative(amount)

	k := allowanceKey(owner, spender)
	if amount == 0 {
		common.DeleteLeased(ctx, k)
		return
	}
	common.PutLeased(ctx, k, AllowanceEntry{
		Amount:     amount,
		ValidUntil: validUntil,
	})
}

// spendAllowance decrements the stored allowance, keeping its bound intact.
// The bound is compared against the current block index, never mutated.
func spendAllowance(ctx storage.Context, owner, spender interop.Hash160, amount int) {
	a := readAllowance(ctx, owner, spender)
	if a.Amount > 0 && ledger.CurrentIndex() > a.ValidUntil {
		panic(tokenconst.ErrAllowanceExpired)
	}
	if amount > a.Amount {
		panic(tokenconst.ErrInsufficientAllowance)
	}
	writeAllowance(ctx, owner, spender, a.Amount-amount, a.ValidUntil)
}
