// Package deploy provides a procedure bringing the FundMe contract suite
// on a Neo blockchain network.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the deployment of the FundMe contract suite.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// PriceFeedPrm groups deployment parameters of the PriceFeed contract.
type PriceFeedPrm struct {
	Common CommonDeployPrm

	// Number of decimal places in published answers, in [0, 18].
	Decimals int64
	// First answer published by the feed right on deployment.
	Answer int64
	// Human-readable pair description, e.g. "GAS / USD".
	Description string
}

// FundMePrm groups deployment parameters of the FundMe contract.
type FundMePrm struct {
	Common CommonDeployPrm
}

// Prm groups all parameters of the FundMe suite deployment procedure.
type Prm struct {
	// Writes progress into the log. Defaults to no-op.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Transactions are sent and paid by this account, so it must have enough
	// GAS for the deployment.
	LocalAccount *wallet.Account

	// Account becoming the owner of both contracts: the withdrawal authority
	// of FundMe and the publisher of PriceFeed answers. Zero value defaults
	// to LocalAccount.
	Owner util.Uint160

	PriceFeed PriceFeedPrm
	FundMe    FundMePrm
}

// Contracts groups addresses of the on-chain contracts resulting from Deploy.
type Contracts struct {
	PriceFeed util.Uint160
	FundMe    util.Uint160
}

// Deploy brings the FundMe contract suite on the Neo blockchain network
// represented by given Prm.Blockchain. The PriceFeed contract is deployed
// first since the address of an operational feed is a deployment parameter
// of the FundMe contract itself.
//
// Deploy is idempotent: contracts already present on the chain at their
// expected addresses are left untouched and reported as deployed. Note that
// the contract address is a function of the deploying transaction's sender,
// so re-running with a different LocalAccount deploys a fresh instance.
func Deploy(ctx context.Context, prm Prm) (Contracts, error) {
	var res Contracts

	if prm.Blockchain == nil {
		return res, errors.New("missing blockchain client")
	}
	if prm.LocalAccount == nil {
		return res, errors.New("missing local account")
	}
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	owner := prm.Owner
	if owner.Equals(util.Uint160{}) {
		owner = prm.LocalAccount.ScriptHash()
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	prm.Logger.Info("synchronizing PriceFeed contract with the chain...")

	res.PriceFeed, err = syncContract(ctx, syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      localActor,
		nef:        prm.PriceFeed.Common.NEF,
		manifest:   prm.PriceFeed.Common.Manifest,
		deployArgs: []any{owner, prm.PriceFeed.Decimals, prm.PriceFeed.Answer, prm.PriceFeed.Description},
	})
	if err != nil {
		return res, fmt.Errorf("sync PriceFeed contract with the chain: %w", err)
	}

	prm.Logger.Info("PriceFeed contract successfully synchronized",
		zap.Stringer("address", res.PriceFeed))

	prm.Logger.Info("synchronizing FundMe contract with the chain...")

	res.FundMe, err = syncContract(ctx, syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      localActor,
		nef:        prm.FundMe.Common.NEF,
		manifest:   prm.FundMe.Common.Manifest,
		deployArgs: []any{owner, res.PriceFeed},
	})
	if err != nil {
		return res, fmt.Errorf("sync FundMe contract with the chain: %w", err)
	}

	prm.Logger.Info("FundMe contract successfully synchronized",
		zap.Stringer("address", res.FundMe))

	return res, nil
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      *actor.Actor
	nef        nef.File
	manifest   manifest.Manifest
	deployArgs []any
}

// syncContract deploys the contract unless it is already present on the
// chain at the address expected for the local deployer account.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	if err := ctx.Err(); err != nil {
		return util.Uint160{}, fmt.Errorf("wait for the chain state: %w", err)
	}

	onChainAddress := state.CreateContractHash(prm.actor.Sender(), prm.nef.Checksum, prm.manifest.Name)

	stateOnChain, err := prm.blockchain.GetContractStateByHash(onChainAddress)
	if err == nil {
		prm.logger.Info("contract is already on the chain",
			zap.String("name", prm.manifest.Name), zap.Int32("id", stateOnChain.ID))
		return onChainAddress, nil
	} else if !strings.Contains(err.Error(), "Unknown contract") {
		return util.Uint160{}, fmt.Errorf("read on-chain state of the contract by address: %w", err)
	}

	prm.logger.Info("contract is missing on the chain, deploying...",
		zap.String("name", prm.manifest.Name))

	txID, vub, err := management.New(prm.actor).Deploy(&prm.nef, &prm.manifest, prm.deployArgs)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send transaction deploying the contract: %w", err)
	}

	rec, err := prm.actor.Wait(txID, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deploy transaction to be accepted: %w", err)
	} else if rec.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deploy transaction failed: %s", rec.FaultException)
	}

	prm.logger.Info("contract successfully deployed",
		zap.String("name", prm.manifest.Name), zap.Stringer("tx", txID))

	return onChainAddress, nil
}
