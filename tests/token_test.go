package tests

import (
	"path"
	"testing"

	"github.com/aurumlabs/aurum-contract/common"
	"github.com/aurumlabs/aurum-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const tokenPath = "../contracts/token"

const (
	tokenDecimals = 7
	spotPrice     = 100
)

func deployTokenContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

// newTokenInvoker deploys and initializes the token contract with the
// committee as administrator and native GAS as the payment token. The
// returned invoker signs with the committee.
func newTokenInvoker(t *testing.T) (*neotest.ContractInvoker, neotest.Signer, util.Uint160) {
	e := newExecutor(t)
	h := deployTokenContract(t, e)

	c := e.CommitteeInvoker(h)
	recipient := c.NewAccount(t)
	gasHash := e.NativeHash(t, nativenames.Gas)

	c.Invoke(t, stackitem.Null{}, "initialize",
		c.CommitteeHash, int64(tokenDecimals), "Aurum", "AUR",
		recipient.ScriptHash(), gasHash, int64(spotPrice))

	return c, recipient, gasHash
}

func gasBalance(t *testing.T, c *neotest.ContractInvoker, gasHash util.Uint160, acc util.Uint160) int64 {
	s, err := c.CommitteeInvoker(gasHash).TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	return s.Top().BigInt().Int64()
}

func tokenHolders(t *testing.T, c *neotest.ContractInvoker) [][]byte {
	s, err := c.TestInvoke(t, "holders")
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	iter, ok := s.Top().Value().(*storage.Iterator)
	require.True(t, ok)

	var res [][]byte
	for _, item := range iteratorToArray(iter) {
		raw, err := item.TryBytes()
		require.NoError(t, err)
		res = append(res, raw)
	}
	return res
}

func TestTokenInitialize(t *testing.T) {
	c, _, gasHash := newTokenInvoker(t)

	c.Invoke(t, "Aurum", "name")
	c.Invoke(t, "AUR", "symbol")
	c.Invoke(t, tokenDecimals, "decimals")
	c.Invoke(t, 0, "totalSupply")
	c.Invoke(t, c.CommitteeHash, "admin")
	c.Invoke(t, gasHash, "paymentTokenAddress")
	c.Invoke(t, spotPrice, "spotPricePerGram")
	c.Invoke(t, common.Version, "version")

	c.InvokeFail(t, "already initialized", "initialize",
		c.CommitteeHash, int64(tokenDecimals), "Aurum", "AUR",
		c.CommitteeHash, gasHash, int64(spotPrice))
}

func TestTokenInitializeBadArgs(t *testing.T) {
	e := newExecutor(t)
	c := e.CommitteeInvoker(deployTokenContract(t, e))
	gasHash := e.NativeHash(t, nativenames.Gas)

	c.InvokeFail(t, "decimals must fit in 8 bits", "initialize",
		c.CommitteeHash, int64(300), "Aurum", "AUR",
		c.CommitteeHash, gasHash, int64(spotPrice))
	c.InvokeFail(t, "negative amount is not allowed", "initialize",
		c.CommitteeHash, int64(tokenDecimals), "Aurum", "AUR",
		c.CommitteeHash, gasHash, int64(-1))
	c.InvokeFail(t, "invalid account script hash", "initialize",
		[]byte{1, 2, 3}, int64(tokenDecimals), "Aurum", "AUR",
		c.CommitteeHash, gasHash, int64(spotPrice))
}

func TestTokenNotInitialized(t *testing.T) {
	e := newExecutor(t)
	c := e.CommitteeInvoker(deployTokenContract(t, e))

	c.InvokeFail(t, "not initialized", "name")
	c.InvokeFail(t, "not initialized", "admin")
	c.InvokeFail(t, "not initialized", "mint", c.CommitteeHash, int64(1))
	c.InvokeFail(t, "not initialized", "setSpotPricePerGram", int64(1))
}

func TestTokenMint(t *testing.T) {
	c, recipient, gasHash := newTokenInvoker(t)

	buyer := c.NewAccount(t)
	cBuyer := c.WithSigners(buyer)

	const grams = 2
	const tokens = grams * tokenconst.UnitScale
	const price = tokenconst.MarkupFactor * grams * spotPrice

	recipientBefore := gasBalance(t, c, gasHash, recipient.ScriptHash())

	cBuyer.Invoke(t, stackitem.Null{}, "mint", buyer.ScriptHash(), int64(grams))

	c.Invoke(t, tokens, "balanceOf", buyer.ScriptHash())
	c.Invoke(t, tokens, "totalSupply")
	require.Equal(t, recipientBefore+price,
		gasBalance(t, c, gasHash, recipient.ScriptHash()))

	// Buying nothing is allowed and costs nothing.
	cBuyer.Invoke(t, stackitem.Null{}, "mint", buyer.ScriptHash(), int64(0))
	c.Invoke(t, tokens, "balanceOf", buyer.ScriptHash())
	require.Equal(t, recipientBefore+price,
		gasBalance(t, c, gasHash, recipient.ScriptHash()))

	cBuyer.InvokeFail(t, "negative amount is not allowed", "mint",
		buyer.ScriptHash(), int64(-1))

	// Witness of the credited account is required.
	c.InvokeFail(t, "owner witness check failed", "mint",
		buyer.ScriptHash(), int64(1))
}

func TestTokenMintPaymentFailed(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	buyer := c.NewAccount(t)
	cBuyer := c.WithSigners(buyer)

	// The total price exceeds anything the buyer holds, so the GAS leg
	// fails and nothing must be credited.
	cBuyer.InvokeFail(t, "payment transfer failed", "mint",
		buyer.ScriptHash(), int64(1_000_000_000))

	c.Invoke(t, 0, "balanceOf", buyer.ScriptHash())
	c.Invoke(t, 0, "totalSupply")
}

func TestTokenMintBalanceOverflow(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	buyer := c.NewAccount(t)
	cBuyer := c.WithSigners(buyer)

	// Make the mint free, so the payment leg passes and only the credit
	// can fail.
	c.Invoke(t, stackitem.Null{}, "setSpotPricePerGram", int64(0))

	const grams = tokenconst.MaxBalance/tokenconst.UnitScale + 1
	cBuyer.InvokeFail(t, "balance overflow", "mint",
		buyer.ScriptHash(), int64(grams))

	c.Invoke(t, 0, "balanceOf", buyer.ScriptHash())
	c.Invoke(t, 0, "totalSupply")
}

func TestTokenTransfer(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	from := c.NewAccount(t)
	to := c.NewAccount(t)
	cFrom := c.WithSigners(from)

	const tokens = 3 * tokenconst.UnitScale

	cFrom.Invoke(t, stackitem.Null{}, "mint", from.ScriptHash(), int64(3))

	cFrom.Invoke(t, stackitem.Null{}, "transfer",
		from.ScriptHash(), to.ScriptHash(), int64(tokens/3))
	c.Invoke(t, tokens/3*2, "balanceOf", from.ScriptHash())
	c.Invoke(t, tokens/3, "balanceOf", to.ScriptHash())
	c.Invoke(t, tokens, "totalSupply")

	cFrom.InvokeFail(t, "insufficient balance", "transfer",
		from.ScriptHash(), to.ScriptHash(), int64(tokens))
	c.Invoke(t, tokens/3*2, "balanceOf", from.ScriptHash())
	c.Invoke(t, tokens/3, "balanceOf", to.ScriptHash())

	cFrom.InvokeFail(t, "negative amount is not allowed", "transfer",
		from.ScriptHash(), to.ScriptHash(), int64(-1))
	cFrom.InvokeFail(t, "invalid account script hash", "transfer",
		from.ScriptHash(), []byte{1, 2, 3}, int64(1))

	// Only the debited account may sign.
	c.WithSigners(to).InvokeFail(t, "owner witness check failed", "transfer",
		from.ScriptHash(), to.ScriptHash(), int64(1))

	// Sending the same amount back restores both balances.
	c.WithSigners(to).Invoke(t, stackitem.Null{}, "transfer",
		to.ScriptHash(), from.ScriptHash(), int64(tokens/3))
	c.Invoke(t, tokens, "balanceOf", from.ScriptHash())
	c.Invoke(t, 0, "balanceOf", to.ScriptHash())
	c.Invoke(t, tokens, "totalSupply")
}

func TestTokenHoldersList(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	a := c.NewAccount(t)
	b := c.NewAccount(t)
	cA := c.WithSigners(a)

	require.Empty(t, tokenHolders(t, c))

	// A zero-amount mint must not materialize an empty balance entry.
	cA.Invoke(t, stackitem.Null{}, "mint", a.ScriptHash(), int64(0))
	require.Empty(t, tokenHolders(t, c))

	cA.Invoke(t, stackitem.Null{}, "mint", a.ScriptHash(), int64(1))
	cA.Invoke(t, stackitem.Null{}, "transfer",
		a.ScriptHash(), b.ScriptHash(), int64(tokenconst.UnitScale/2))

	require.ElementsMatch(t, [][]byte{
		a.ScriptHash().BytesBE(),
		b.ScriptHash().BytesBE(),
	}, tokenHolders(t, c))

	// A fully spent balance entry is removed from the listing.
	cA.Invoke(t, stackitem.Null{}, "transfer",
		a.ScriptHash(), b.ScriptHash(), int64(tokenconst.UnitScale/2))
	require.ElementsMatch(t, [][]byte{
		b.ScriptHash().BytesBE(),
	}, tokenHolders(t, c))
}

func TestTokenApprove(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	cOwner := c.WithSigners(owner)

	validUntil := int64(c.Chain.BlockHeight() + 100)

	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(50), validUntil)
	c.Invoke(t, 50, "allowance", owner.ScriptHash(), spender.ScriptHash())

	// Approve overwrites, it never accumulates.
	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(30), validUntil)
	c.Invoke(t, 30, "allowance", owner.ScriptHash(), spender.ScriptHash())

	// Zero amount revokes.
	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(0), validUntil)
	c.Invoke(t, 0, "allowance", owner.ScriptHash(), spender.ScriptHash())

	cOwner.InvokeFail(t, "negative amount is not allowed", "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(-1), validUntil)

	// Only the owner may approve.
	c.WithSigners(spender).InvokeFail(t, "owner witness check failed", "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(1), validUntil)
}

func TestTokenTransferFrom(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	to := c.NewAccount(t)
	cOwner := c.WithSigners(owner)
	cSpender := c.WithSigners(spender)

	const tokens = tokenconst.UnitScale

	cOwner.Invoke(t, stackitem.Null{}, "mint", owner.ScriptHash(), int64(1))

	validUntil := int64(c.Chain.BlockHeight() + 100)
	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(50), validUntil)

	cSpender.Invoke(t, stackitem.Null{}, "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), to.ScriptHash(), int64(30))
	c.Invoke(t, 20, "allowance", owner.ScriptHash(), spender.ScriptHash())
	c.Invoke(t, tokens-30, "balanceOf", owner.ScriptHash())
	c.Invoke(t, 30, "balanceOf", to.ScriptHash())

	cSpender.InvokeFail(t, "insufficient allowance", "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), to.ScriptHash(), int64(21))
	c.Invoke(t, 20, "allowance", owner.ScriptHash(), spender.ScriptHash())
	c.Invoke(t, tokens-30, "balanceOf", owner.ScriptHash())

	// The spender, not the owner, signs a transferFrom.
	cOwner.InvokeFail(t, "owner witness check failed", "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), to.ScriptHash(), int64(1))

	// No allowance at all behaves as an allowance of 0.
	cSpender.InvokeFail(t, "insufficient allowance", "transferFrom",
		spender.ScriptHash(), to.ScriptHash(), owner.ScriptHash(), int64(1))
}

func TestTokenAllowanceExpiry(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	to := c.NewAccount(t)
	cOwner := c.WithSigners(owner)
	cSpender := c.WithSigners(spender)

	cOwner.Invoke(t, stackitem.Null{}, "mint", owner.ScriptHash(), int64(1))

	validUntil := int64(c.Chain.BlockHeight() + 2)
	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(50), validUntil)

	c.GenerateNewBlocks(t, 5)

	c.Invoke(t, 0, "allowance", owner.ScriptHash(), spender.ScriptHash())
	cSpender.InvokeFail(t, "allowance expired", "transferFrom",
		spender.ScriptHash(), owner.ScriptHash(), to.ScriptHash(), int64(1))
	c.Invoke(t, tokenconst.UnitScale, "balanceOf", owner.ScriptHash())

	// Approving with a bound in the past is allowed, the permission is
	// simply born unusable.
	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(50), int64(1))
	c.Invoke(t, 0, "allowance", owner.ScriptHash(), spender.ScriptHash())
}

func TestTokenBurn(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	const tokens = 2 * tokenconst.UnitScale

	cAcc.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), int64(2))

	cAcc.Invoke(t, stackitem.Null{}, "burn", acc.ScriptHash(), int64(tokens/2))
	c.Invoke(t, tokens/2, "balanceOf", acc.ScriptHash())
	c.Invoke(t, tokens/2, "totalSupply")

	cAcc.InvokeFail(t, "insufficient balance", "burn",
		acc.ScriptHash(), int64(tokens))
	c.InvokeFail(t, "owner witness check failed", "burn",
		acc.ScriptHash(), int64(1))

	cAcc.Invoke(t, stackitem.Null{}, "burn", acc.ScriptHash(), int64(tokens/2))
	c.Invoke(t, 0, "balanceOf", acc.ScriptHash())
	c.Invoke(t, 0, "totalSupply")
}

func TestTokenBurnFrom(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	owner := c.NewAccount(t)
	spender := c.NewAccount(t)
	cOwner := c.WithSigners(owner)
	cSpender := c.WithSigners(spender)

	const tokens = tokenconst.UnitScale

	cOwner.Invoke(t, stackitem.Null{}, "mint", owner.ScriptHash(), int64(1))

	validUntil := int64(c.Chain.BlockHeight() + 100)
	cOwner.Invoke(t, stackitem.Null{}, "approve",
		owner.ScriptHash(), spender.ScriptHash(), int64(100), validUntil)

	cSpender.Invoke(t, stackitem.Null{}, "burnFrom",
		spender.ScriptHash(), owner.ScriptHash(), int64(60))
	c.Invoke(t, 40, "allowance", owner.ScriptHash(), spender.ScriptHash())
	c.Invoke(t, tokens-60, "balanceOf", owner.ScriptHash())
	c.Invoke(t, tokens-60, "totalSupply")

	cSpender.InvokeFail(t, "insufficient allowance", "burnFrom",
		spender.ScriptHash(), owner.ScriptHash(), int64(41))
}

func TestTokenSetAdmin(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	newAdmin := c.NewAccount(t)
	cNew := c.WithSigners(newAdmin)

	cNew.InvokeFail(t, "admin witness check failed", "setAdmin",
		newAdmin.ScriptHash())

	c.Invoke(t, stackitem.Null{}, "setAdmin", newAdmin.ScriptHash())
	c.Invoke(t, newAdmin.ScriptHash(), "admin")

	// The previous administrator has no power left.
	c.InvokeFail(t, "admin witness check failed", "setSpotPricePerGram", int64(7))

	cNew.Invoke(t, stackitem.Null{}, "setSpotPricePerGram", int64(7))
	c.Invoke(t, 7, "spotPricePerGram")
}

func TestTokenExchangeConfig(t *testing.T) {
	c, recipient, gasHash := newTokenInvoker(t)

	stranger := c.NewAccount(t)
	cStranger := c.WithSigners(stranger)

	c.Invoke(t, recipient.ScriptHash(), "recipientAddress")
	c.Invoke(t, gasHash, "paymentTokenAddress")

	newRecipient := c.NewAccount(t)
	c.Invoke(t, stackitem.Null{}, "setRecipientAddress", newRecipient.ScriptHash())
	c.Invoke(t, newRecipient.ScriptHash(), "recipientAddress")

	cStranger.InvokeFail(t, "admin witness check failed",
		"setRecipientAddress", stranger.ScriptHash())
	cStranger.InvokeFail(t, "admin witness check failed",
		"setPaymentTokenAddress", gasHash)
	cStranger.InvokeFail(t, "admin witness check failed",
		"setSpotPricePerGram", int64(1))

	c.InvokeFail(t, "negative amount is not allowed", "setSpotPricePerGram", int64(-1))

	// Mint pays the fresh recipient.
	buyer := c.NewAccount(t)
	before := gasBalance(t, c, gasHash, newRecipient.ScriptHash())
	c.WithSigners(buyer).Invoke(t, stackitem.Null{}, "mint", buyer.ScriptHash(), int64(1))
	require.Equal(t, before+int64(tokenconst.MarkupFactor*spotPrice),
		gasBalance(t, c, gasHash, newRecipient.ScriptHash()))
}

func TestTokenUpdateGuard(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	stranger := c.NewAccount(t)
	c.WithSigners(stranger).InvokeFail(t, "admin witness check failed",
		"update", []byte{}, []byte{}, nil)
}

func TestTokenLeaseRenewal(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	const tokens = tokenconst.UnitScale

	cAcc.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), int64(1))

	// Bring the balance entry close to the end of its lease, then touch it.
	// The access must renew the lease, so the entry survives well past the
	// original bound.
	c.GenerateNewBlocks(t, common.LeaseExtension-common.LeaseThreshold+1)
	c.Invoke(t, tokens, "balanceOf", acc.ScriptHash())

	c.GenerateNewBlocks(t, common.LeaseExtension-common.LeaseThreshold+1)
	c.Invoke(t, tokens, "balanceOf", acc.ScriptHash())
}

func TestTokenLeaseLapse(t *testing.T) {
	c, _, _ := newTokenInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), int64(1))

	// Leave every entry untouched until all leases run out.
	c.GenerateNewBlocks(t, common.LeaseExtension+1)

	// A lapsed entry is indistinguishable from one that never existed.
	c.Invoke(t, 0, "balanceOf", acc.ScriptHash())
	c.Invoke(t, 0, "totalSupply")
	c.InvokeFail(t, "not initialized", "name")
	c.InvokeFail(t, "not initialized", "admin")

	// Including the admin entry, so the contract is open for a fresh
	// Initialize again.
	gasHash := c.NativeHash(t, nativenames.Gas)
	c.Invoke(t, stackitem.Null{}, "initialize",
		c.CommitteeHash, int64(tokenDecimals), "Aurum II", "AUR2",
		c.CommitteeHash, gasHash, int64(spotPrice))
	c.Invoke(t, "Aurum II", "name")
}
