package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Lease policy shared by every persistent entry of the contract. An entry is
// readable only while the current block index is below its lease bound. Any
// access through GetLeased or PutLeased keeps the entry alive: once less than
// LeaseThreshold blocks of the lease remain, it is extended to LeaseExtension
// blocks from the current index.
const (
	LeaseThreshold = 960
	LeaseExtension = 2880
)

// leasedEntry wraps a stored value together with the block index until which
// the entry stays readable.
type leasedEntry struct {
	Value      any
	ValidUntil int
}

// GetLeased returns the value stored under key or nil if there is none. An
// entry whose lease has run out is reported as missing, same as a key that
// has never been written. Reading a live entry renews its lease.
func GetLeased(ctx storage.Context, key any) any {
	data := storage.Get(ctx, key)
	if data == nil {
		return nil
	}

	e := std.Deserialize(data.([]byte)).(leasedEntry)

	h := ledger.CurrentIndex()
	if h >= e.ValidUntil {
		return nil
	}

	if e.ValidUntil-h < LeaseThreshold {
		e.ValidUntil = h + LeaseExtension
		SetSerialized(ctx, key, e)
	}

	return e.Value
}

// PutLeased stores value under key with a full lease.
func PutLeased(ctx storage.Context, key, value any) {
	e := leasedEntry{
		Value:      value,
		ValidUntil: ledger.CurrentIndex() + LeaseExtension,
	}
	SetSerialized(ctx, key, e)
}

// DeleteLeased removes the entry stored under key.
func DeleteLeased(ctx storage.Context, key any) {
	storage.Delete(ctx, key)
}
