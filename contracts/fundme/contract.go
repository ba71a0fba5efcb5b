package fundme

import (
	"github.com/neofund/fundme-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	// minimumUSD is the smallest deposit value accepted by Fund, in USD
	// normalized to usdDecimals digits.
	minimumUSD = 5_000_000_000_000_000_000

	// usdDecimals is the fixed-point precision of USD values.
	usdDecimals = 18
	// gasDecimals is the precision of the native GAS token.
	gasDecimals = 8

	accPrefix = 'a'

	fundersKey = 'f'
	feedKey    = 'p'

	latestAnswerMethod = "latestAnswer"
	decimalsMethod     = "decimals"

	// fundDetails marks GAS transfers initiated by the Fund method. Direct
	// transfers without it are rejected to keep the contract balance equal
	// to the sum of recorded deposits.
	fundDetails = "\x46\x4d"
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
		owner     interop.Hash160
		priceFeed interop.Hash160
	})

	if len(args.owner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}
	if len(args.priceFeed) != interop.Hash160Len {
		panic("incorrect length of price feed script hash")
	}

	storage.Put(ctx, common.OwnerKey, args.owner)
	storage.Put(ctx, feedKey, args.priceFeed)

	runtime.Log("fundme contract initialized")
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
	runtime.Log("fundme contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// It accepts only transfers initiated by the Fund method, so the contract
// balance always matches the sum of recorded deposits.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic("onNEP17Payment: fundme contract accepts GAS only")
	}

	if data == nil {
		panic("onNEP17Payment: use fund method to deposit")
	}

	details := data.([]byte)
	if string(details) != fundDetails {
		panic("onNEP17Payment: use fund method to deposit")
	}
}

// Fund records a GAS deposit from the given account. The deposit is accepted
// only if its USD value, computed with the current price feed answer, is not
// below MinimumUSD. GAS is transferred to the contract within the same
// invocation, so a failure at any step leaves both the ledger and the balance
// untouched.
//
// Produces Fund notification.
func Fund(from interop.Hash160, amount int) {
	common.CheckWitness(from)

	if amount <= 0 {
		panic("fund: non positive amount")
	}

	ctx := storage.GetContext()
	feed := storage.Get(ctx, feedKey).(interop.Hash160)

	value := usdValue(amount, feed)
	if value < minimumUSD {
		panic("fund: deposit below minimum USD value")
	}

	to := runtime.GetExecutingScriptHash()

	transferred := gas.Transfer(from, to, amount, []byte(fundDetails))
	if !transferred {
		panic("fund: failed to transfer funds, aborting")
	}

	key := accKey(from)
	storage.Put(ctx, key, common.GetInt(ctx, key)+amount)

	funders := common.GetList(ctx, fundersKey)
	funders = append(funders, from)
	common.SetSerialized(ctx, fundersKey, funders)

	runtime.Notify("Fund", from, amount)
}

// Withdraw transfers the whole contract balance to the owner and resets the
// deposit ledger. It can be invoked only by the contract owner. A failed
// payout panics and the VM discards the ledger reset, so no partial clearing
// is ever observable.
//
// Produces Withdraw notification.
func Withdraw() {
	ctx := storage.GetContext()
	owner := common.ContractOwner(ctx)
	common.CheckOwnerWitness(owner)

	funders := common.GetList(ctx, fundersKey)
	for i := range funders {
		storage.Delete(ctx, accKey(funders[i]))
	}
	common.SetSerialized(ctx, fundersKey, [][]byte{})

	from := runtime.GetExecutingScriptHash()
	balance := gas.BalanceOf(from)

	if balance > 0 {
		transferred := gas.Transfer(from, owner, balance, nil)
		if !transferred {
			panic("withdraw: failed to transfer funds, aborting")
		}
	}

	runtime.Log("fundme: funds have been withdrawn")
	runtime.Notify("Withdraw", owner, balance)
}

// AmountFunded returns the cumulative amount of GAS deposited by the given
// account since the last withdrawal, zero if it never deposited.
func AmountFunded(funder interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, accKey(funder))
}

// Funder returns the account that made the deposit at the given position.
// One entry is appended per deposit, so accounts can repeat.
func Funder(index int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	funders := common.GetList(ctx, fundersKey)
	if index < 0 || index >= len(funders) {
		panic("funder: index out of range")
	}

	return funders[index]
}

// FundersCount returns the number of deposits made since the last withdrawal.
func FundersCount() int {
	ctx := storage.GetReadOnlyContext()
	return len(common.GetList(ctx, fundersKey))
}

// Owner returns the account authorized to withdraw, fixed at deploy.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.ContractOwner(ctx)
}

// PriceFeed returns the script hash of the price feed contract used to value
// deposits.
func PriceFeed() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, feedKey).(interop.Hash160)
}

// FeedDecimals returns the precision of the price feed answers.
func FeedDecimals() int {
	ctx := storage.GetReadOnlyContext()
	feed := storage.Get(ctx, feedKey).(interop.Hash160)

	return contract.Call(feed, decimalsMethod, contract.ReadOnly).(int)
}

// MinimumUSD returns the smallest accepted deposit value in USD normalized
// to 18 decimals.
func MinimumUSD() int {
	return minimumUSD
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// usdValue converts a GAS amount into USD normalized to usdDecimals digits
// using the latest feed answer. Multiplication is done before division to
// avoid precision loss in integer arithmetic.
func usdValue(amount int, feed interop.Hash160) int {
	answer := contract.Call(feed, latestAnswerMethod, contract.ReadOnly).(int)
	if answer <= 0 {
		panic("fund: non positive feed answer")
	}

	feedDecimals := contract.Call(feed, decimalsMethod, contract.ReadOnly).(int)
	if feedDecimals > usdDecimals {
		panic("fund: unsupported feed precision")
	}

	rate := answer
	for i := feedDecimals; i < usdDecimals; i++ {
		rate = rate * 10
	}

	return amount * rate / tenPow(gasDecimals)
}

func tenPow(n int) int {
	result := 1
	for i := 0; i < n; i++ {
		result = result * 10
	}

	return result
}

func accKey(funder interop.Hash160) []byte {
	return append([]byte{accPrefix}, funder...)
}
