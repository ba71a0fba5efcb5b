package tests

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// gasBalance returns the GAS balance of the account in the smallest units.
func gasBalance(t *testing.T, e *neotest.Executor, acc util.Uint160) int64 {
	gasInvoker := e.CommitteeInvoker(e.NativeHash(t, nativenames.Gas))

	res, err := gasInvoker.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)

	return res.Top().BigInt().Int64()
}

// accLabel returns a readable account label for subtest names.
func accLabel(acc neotest.Signer) string {
	return base58.Encode(acc.ScriptHash().BytesBE())
}
