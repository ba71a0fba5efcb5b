package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// OwnerKey is a storage key of the contract owner script hash. Owner is set
// once at deploy and never changes.
const OwnerKey = "contractOwner"

// ContractOwner returns the owner script hash fixed at contract deploy.
func ContractOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, OwnerKey).(interop.Hash160)
}

// HasUpdateAccess returns true if the contract update is witnessed by the
// contract owner.
func HasUpdateAccess(ctx storage.Context) bool {
	return runtime.CheckWitness(ContractOwner(ctx))
}
