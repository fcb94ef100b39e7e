/*
Package token implements the Aurum token contract.

Aurum is a gold-backed ledger token with a priced exchange front end. Besides
the usual transfer/approve/burn surface, holders can mint tokens by paying a
configured NEP-17 payment token at an administrator-set spot price per gram:
one purchased gram mints tokenconst.UnitScale token units and costs
tokenconst.MarkupFactor * grams * spot price payment units. The payment is
settled before the ledger is credited and is not refunded if crediting fails.

Every persistent entry of the contract is leased: it stays readable for a
bounded number of blocks and every access through the contract renews the
lease (see common.GetLeased). An entry that was not accessed before its lease
ran out is indistinguishable from one that never existed, so callers must
treat missing state as possibly lapsed, not only as never set.

# Contract notifications

Transfer notification. Emitted on transfers as well as on mint (from is null)
and burn (to is null).

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. Emitted on every Approve call, including revocations.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: validUntil
	    type: Integer

Mint notification. Emitted after a successful priced mint.

	Mint:
	  - name: admin
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Burn notification.

	Burn:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

SetAdmin notification. Emitted when the administrator is replaced.

	SetAdmin:
	  - name: oldAdmin
	    type: Hash160
	  - name: newAdmin
	    type: Hash160
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format (every value is wrapped into a leased entry, see
common/lease.go):
 - 'A' -> interop.Hash160
   contract administrator
 - 'M' -> std.Serialize(Metadata)
   token name, symbol and decimals, fixed at Initialize
 - 'R' -> interop.Hash160
   account receiving mint payments
 - 'P' -> interop.Hash160
   NEP-17 contract accepted as mint payment
 - 'S' -> int
   payment token price of one gram of the backing asset
 - 'T' -> int
   total amount of token units in circulation
 - 'a' + interop.Hash160 -> int
   account balances in token units
 - 'l' + owner interop.Hash160 + spender interop.Hash160 -> std.Serialize(Allowance)
   spending permissions with their height bounds
*/
