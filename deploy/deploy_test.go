package deploy

import (
	"context"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

// testBlockchain is a non-functional Blockchain stub: parameter checks are
// expected to fail before any of its methods get called.
type testBlockchain struct {
	actor.RPCActor
}

func (testBlockchain) GetContractStateByHash(util.Uint160) (*state.Contract, error) {
	panic("unexpected call")
}

func TestDeployMissingParameters(t *testing.T) {
	ctx := context.Background()

	_, err := Deploy(ctx, Prm{})
	require.ErrorContains(t, err, "missing blockchain client")

	_, err = Deploy(ctx, Prm{Blockchain: testBlockchain{}})
	require.ErrorContains(t, err, "missing local account")
}
