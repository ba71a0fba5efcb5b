package tests

import (
	"encoding/json"
	"math/big"
	"path"
	"testing"

	"github.com/neofund/fundme-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const fundmePath = "../contracts/fundme"

const (
	oneGAS = 1_0000_0000

	// belowMinimum is 0.001 GAS, worth 2 USD at the feedAnswer rate and
	// therefore under the 5 USD minimum.
	belowMinimum = 100_000
)

func deployFundMeContract(t *testing.T, e *neotest.Executor, owner, priceFeed util.Uint160) util.Uint160 {
	args := make([]any, 2)
	args[0] = owner
	args[1] = priceFeed

	c := neotest.CompileFile(t, e.CommitteeHash, fundmePath, path.Join(fundmePath, "config.yml"))
	e.DeployContract(t, c, args)
	return c.Hash
}

// newFundMeInvoker deploys the feed and the FundMe contract owned by the
// committee and returns an invoker together with both contract hashes.
func newFundMeInvoker(t *testing.T) (*neotest.ContractInvoker, util.Uint160, util.Uint160) {
	e := newExecutor(t)

	feedHash := deployPriceFeedContract(t, e, e.CommitteeHash, feedDecimals, feedAnswer, "GAS / USD")
	h := deployFundMeContract(t, e, e.CommitteeHash, feedHash)

	return e.CommitteeInvoker(h), h, feedHash
}

func TestFundMe_Deploy(t *testing.T) {
	c, h, feedHash := newFundMeInvoker(t)

	c.Invoke(t, stackitem.NewBuffer(c.CommitteeHash.BytesBE()), "owner")
	c.Invoke(t, stackitem.NewBuffer(feedHash.BytesBE()), "priceFeed")
	c.Invoke(t, stackitem.Make(feedDecimals), "feedDecimals")
	c.Invoke(t, stackitem.Make(common.Version), "version")
	c.Invoke(t, stackitem.Make(0), "fundersCount")

	minimum := new(big.Int).Mul(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
	c.Invoke(t, stackitem.NewBigInteger(minimum), "minimumUSD")

	require.EqualValues(t, 0, gasBalance(t, c.Executor, h))
}

func TestFundMe_Fund(t *testing.T) {
	c, h, _ := newFundMeInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, "deposit below minimum USD value", "fund", acc.ScriptHash(), int64(belowMinimum))
	cAcc.InvokeFail(t, "non positive amount", "fund", acc.ScriptHash(), int64(0))

	c.Invoke(t, stackitem.Make(0), "amountFunded", acc.ScriptHash())
	c.Invoke(t, stackitem.Make(0), "fundersCount")
	require.EqualValues(t, 0, gasBalance(t, c.Executor, h))

	txFund := cAcc.Invoke(t, stackitem.Null{}, "fund", acc.ScriptHash(), int64(oneGAS))

	c.Invoke(t, stackitem.Make(oneGAS), "amountFunded", acc.ScriptHash())
	c.Invoke(t, stackitem.Make(1), "fundersCount")
	c.Invoke(t, stackitem.NewByteArray(acc.ScriptHash().BytesBE()), "funder", int64(0))
	require.EqualValues(t, oneGAS, gasBalance(t, c.Executor, h))

	aer := c.CheckHalt(t, txFund)
	var seen bool
	for _, ev := range aer.Events {
		if ev.Name != "Fund" {
			continue
		}
		seen = true
		require.Equal(t, h, ev.ScriptHash)
		require.Equal(t, stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(acc.ScriptHash().BytesBE()),
			stackitem.Make(oneGAS),
		}), ev.Item)
	}
	require.True(t, seen, "no Fund notification")

	// repeated deposits accumulate and append a new list entry
	cAcc.Invoke(t, stackitem.Null{}, "fund", acc.ScriptHash(), int64(2*oneGAS))

	c.Invoke(t, stackitem.Make(3*oneGAS), "amountFunded", acc.ScriptHash())
	c.Invoke(t, stackitem.Make(2), "fundersCount")
	c.Invoke(t, stackitem.NewByteArray(acc.ScriptHash().BytesBE()), "funder", int64(1))
	require.EqualValues(t, 3*oneGAS, gasBalance(t, c.Executor, h))

	t.Run("witness", func(t *testing.T) {
		other := c.NewAccount(t)
		cOther := c.WithSigners(other)
		cOther.InvokeFail(t, common.ErrWitnessFailed, "fund", acc.ScriptHash(), int64(oneGAS))
	})
}

func TestFundMe_LedgerMatchesBalance(t *testing.T) {
	c, h, _ := newFundMeInvoker(t)

	var total int64
	for i := 1; i <= 3; i++ {
		acc := c.NewAccount(t)
		amount := int64(i) * oneGAS

		t.Run(accLabel(acc), func(t *testing.T) {
			c.WithSigners(acc).Invoke(t, stackitem.Null{}, "fund", acc.ScriptHash(), amount)
			total += amount

			c.Invoke(t, stackitem.Make(amount), "amountFunded", acc.ScriptHash())
			require.EqualValues(t, total, gasBalance(t, c.Executor, h))
		})
	}

	c.Invoke(t, stackitem.Make(3), "fundersCount")
}

func TestFundMe_FundBadFeedAnswer(t *testing.T) {
	c, _, feedHash := newFundMeInvoker(t)
	feedInvoker := c.CommitteeInvoker(feedHash)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	feedInvoker.Invoke(t, stackitem.Null{}, "updateAnswer", int64(0))
	cAcc.InvokeFail(t, "non positive feed answer", "fund", acc.ScriptHash(), int64(oneGAS))

	feedInvoker.Invoke(t, stackitem.Null{}, "updateAnswer", int64(-feedAnswer))
	cAcc.InvokeFail(t, "non positive feed answer", "fund", acc.ScriptHash(), int64(oneGAS))

	feedInvoker.Invoke(t, stackitem.Null{}, "updateAnswer", int64(feedAnswer))
	cAcc.Invoke(t, stackitem.Null{}, "fund", acc.ScriptHash(), int64(oneGAS))
}

func TestFundMe_Funder(t *testing.T) {
	c, _, _ := newFundMeInvoker(t)

	c.InvokeFail(t, "index out of range", "funder", int64(0))

	acc := c.NewAccount(t)
	c.WithSigners(acc).Invoke(t, stackitem.Null{}, "fund", acc.ScriptHash(), int64(oneGAS))

	c.Invoke(t, stackitem.NewByteArray(acc.ScriptHash().BytesBE()), "funder", int64(0))
	c.InvokeFail(t, "index out of range", "funder", int64(1))
	c.InvokeFail(t, "index out of range", "funder", int64(-1))
}

func TestFundMe_Withdraw(t *testing.T) {
	e := newExecutor(t)
	ownerAcc := e.NewAccount(t)

	feedHash := deployPriceFeedContract(t, e, e.CommitteeHash, feedDecimals, feedAnswer, "GAS / USD")
	h := deployFundMeContract(t, e, ownerAcc.ScriptHash(), feedHash)
	c := e.CommitteeInvoker(h)

	acc := c.NewAccount(t)
	c.WithSigners(acc).Invoke(t, stackitem.Null{}, "fund", acc.ScriptHash(), int64(oneGAS))

	t.Run("not owner", func(t *testing.T) {
		stranger := c.NewAccount(t)
		c.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed, "withdraw")

		c.Invoke(t, stackitem.Make(oneGAS), "amountFunded", acc.ScriptHash())
		c.Invoke(t, stackitem.Make(1), "fundersCount")
		require.EqualValues(t, oneGAS, gasBalance(t, c.Executor, h))
	})

	ownerBefore := gasBalance(t, c.Executor, ownerAcc.ScriptHash())

	// the validator signer pays the fees, the owner only witnesses the
	// call, so the owner balance grows by exactly the withdrawn amount
	cOwner := c.WithSigners(e.Validator, ownerAcc)
	txWithdraw := cOwner.Invoke(t, stackitem.Null{}, "withdraw")

	c.Invoke(t, stackitem.Make(0), "amountFunded", acc.ScriptHash())
	c.Invoke(t, stackitem.Make(0), "fundersCount")
	c.InvokeFail(t, "index out of range", "funder", int64(0))
	require.EqualValues(t, 0, gasBalance(t, c.Executor, h))
	require.EqualValues(t, ownerBefore+oneGAS, gasBalance(t, c.Executor, ownerAcc.ScriptHash()))

	aer := c.CheckHalt(t, txWithdraw)
	var seen bool
	for _, ev := range aer.Events {
		if ev.Name != "Withdraw" {
			continue
		}
		seen = true
		require.Equal(t, stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(ownerAcc.ScriptHash().BytesBE()),
			stackitem.Make(oneGAS),
		}), ev.Item)
	}
	require.True(t, seen, "no Withdraw notification")

	t.Run("empty contract", func(t *testing.T) {
		txEmpty := cOwner.Invoke(t, stackitem.Null{}, "withdraw")
		require.EqualValues(t, 0, gasBalance(t, c.Executor, h))

		// the notification fires even when there was nothing to pay out
		aer := c.CheckHalt(t, txEmpty)
		var seen bool
		for _, ev := range aer.Events {
			if ev.Name != "Withdraw" {
				continue
			}
			seen = true
			require.Equal(t, stackitem.NewArray([]stackitem.Item{
				stackitem.NewByteArray(ownerAcc.ScriptHash().BytesBE()),
				stackitem.Make(0),
			}), ev.Item)
		}
		require.True(t, seen, "no Withdraw notification")
	})
}

func TestFundMe_DirectTransfer(t *testing.T) {
	c, h, _ := newFundMeInvoker(t)

	acc := c.NewAccount(t)
	gasInvoker := c.CommitteeInvoker(c.NativeHash(t, nativenames.Gas)).WithSigners(acc)

	gasInvoker.InvokeFail(t, "use fund method to deposit",
		"transfer", acc.ScriptHash(), h, int64(oneGAS), nil)
	gasInvoker.InvokeFail(t, "use fund method to deposit",
		"transfer", acc.ScriptHash(), h, int64(oneGAS), []byte("details"))

	require.EqualValues(t, 0, gasBalance(t, c.Executor, h))
}

func TestFundMe_Update(t *testing.T) {
	c, _, _ := newFundMeInvoker(t)

	ctr := neotest.CompileFile(t, c.CommitteeHash, fundmePath, path.Join(fundmePath, "config.yml"))
	bNEF, err := ctr.NEF.Bytes()
	require.NoError(t, err)
	jManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	stranger := c.NewAccount(t)
	c.WithSigners(stranger).InvokeFail(t, "only owner can update contract",
		"update", bNEF, jManifest, nil)

	// the owner check passes and the update reaches the version gate,
	// which rejects re-deployment of the version already on the chain
	c.InvokeFail(t, common.ErrAlreadyUpdated, "update", bNEF, jManifest, nil)
}
