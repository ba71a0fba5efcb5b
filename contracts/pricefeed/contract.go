package pricefeed

import (
	"github.com/neofund/fundme-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	decimalsKey    = 'd'
	descriptionKey = 's'
	answerKey      = 'a'
	roundKey       = 'r'
	updatedAtKey   = 'u'

	maxDecimals = 18
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner       interop.Hash160
		decimals    int
		answer      int
		description string
	})

	if len(args.owner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}
	if args.decimals < 0 || args.decimals > maxDecimals {
		panic("invalid decimals")
	}

	storage.Put(ctx, common.OwnerKey, args.owner)
	storage.Put(ctx, decimalsKey, args.decimals)
	storage.Put(ctx, descriptionKey, args.description)
	storage.Put(ctx, answerKey, args.answer)
	storage.Put(ctx, roundKey, 1)
	storage.Put(ctx, updatedAtKey, runtime.GetTime())

	runtime.Log("pricefeed contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	if !common.HasUpdateAccess(ctx) {
		panic("only owner can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("pricefeed contract updated")
}

// UpdateAnswer publishes a new feed answer. It can be invoked only by the
// contract owner.
//
// Produces AnswerUpdated notification.
func UpdateAnswer(answer int) {
	ctx := storage.GetContext()
	owner := common.ContractOwner(ctx)
	common.CheckOwnerWitness(owner)

	round := common.GetInt(ctx, roundKey) + 1
	now := runtime.GetTime()

	storage.Put(ctx, answerKey, answer)
	storage.Put(ctx, roundKey, round)
	storage.Put(ctx, updatedAtKey, now)

	runtime.Notify("AnswerUpdated", answer, round, now)
}

// LatestAnswer returns the most recently published answer. The answer is an
// integer with Decimals fractional digits; consumers are expected to check
// its sign themselves.
func LatestAnswer() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, answerKey)
}

// LatestRound returns the sequence number of the latest answer, starting
// from 1 at deploy.
func LatestRound() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, roundKey)
}

// LatestTimestamp returns the block timestamp of the latest answer in
// milliseconds.
func LatestTimestamp() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, updatedAtKey)
}

// Decimals returns the number of fractional digits in feed answers.
func Decimals() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, decimalsKey)
}

// Description returns a human-readable pair description, e.g. "GAS / USD".
func Description() string {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, descriptionKey).(string)
}

// Owner returns the account authorized to publish answers, fixed at deploy.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.ContractOwner(ctx)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}
