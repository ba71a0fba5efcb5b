// Command fundme-dump prints the current state of an on-chain FundMe
// contract and its price feed: the ledger of funders, the contract's GAS
// balance and the latest oracle reading.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/neofund/fundme-contract/rpc/fundme"
	"github.com/neofund/fundme-contract/rpc/pricefeed"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractAddress := flag.String("contract", "", "FundMe contract address (Neo address or LE hex)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractAddress == "":
		log.Fatal("missing FundMe contract address")
	}

	contractHash, err := parseUint160(*contractAddress)
	if err != nil {
		log.Fatal(fmt.Errorf("decode FundMe contract address: %w", err))
	}

	c, err := rpcclient.New(context.Background(), *neoRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		log.Fatal(fmt.Errorf("RPC client dial: %w", err))
	}
	if err := c.Init(); err != nil {
		log.Fatal(fmt.Errorf("RPC client init: %w", err))
	}

	if err := dump(invoker.New(c, nil), contractHash); err != nil {
		log.Fatal(err)
	}
}

func dump(inv *invoker.Invoker, contractHash util.Uint160) error {
	reader := fundme.NewReader(inv, contractHash)

	owner, err := reader.Owner()
	if err != nil {
		return fmt.Errorf("get contract owner: %w", err)
	}

	feedHash, err := reader.PriceFeed()
	if err != nil {
		return fmt.Errorf("get price feed address: %w", err)
	}

	minimumUSD, err := reader.MinimumUSD()
	if err != nil {
		return fmt.Errorf("get minimum deposit: %w", err)
	}

	balance, err := nep17.NewReader(inv, gas.Hash).BalanceOf(contractHash)
	if err != nil {
		return fmt.Errorf("get GAS balance of the contract: %w", err)
	}

	fmt.Println("contract:   ", address.Uint160ToString(contractHash))
	fmt.Println("owner:      ", address.Uint160ToString(owner))
	fmt.Println("price feed: ", address.Uint160ToString(feedHash))
	fmt.Println("minimum USD:", new(big.Int).Div(minimumUSD, big.NewInt(1e18)))
	fmt.Println("balance GAS:", fixedn.Fixed8(balance.Int64()))

	if err := dumpFeed(inv, feedHash); err != nil {
		return err
	}

	return dumpLedger(reader)
}

func dumpFeed(inv *invoker.Invoker, feedHash util.Uint160) error {
	feed := pricefeed.NewReader(inv, feedHash)

	description, err := feed.Description()
	if err != nil {
		return fmt.Errorf("get feed description: %w", err)
	}

	answer, err := feed.LatestAnswer()
	if err != nil {
		return fmt.Errorf("get latest feed answer: %w", err)
	}

	decimals, err := feed.Decimals()
	if err != nil {
		return fmt.Errorf("get feed decimals: %w", err)
	}

	round, err := feed.LatestRound()
	if err != nil {
		return fmt.Errorf("get latest feed round: %w", err)
	}

	fmt.Printf("feed '%s': answer %s (%d decimals), round %s\n", description, answer, decimals, round)

	return nil
}

func dumpLedger(reader *fundme.ContractReader) error {
	count, err := reader.FundersCount()
	if err != nil {
		return fmt.Errorf("get number of funders: %w", err)
	}

	fmt.Println("funders:    ", count)

	one := big.NewInt(1)

	for i := new(big.Int); i.Cmp(count) < 0; i.Add(i, one) {
		funder, err := reader.Funder(i)
		if err != nil {
			return fmt.Errorf("get funder #%s: %w", i, err)
		}

		amount, err := reader.AmountFunded(funder)
		if err != nil {
			return fmt.Errorf("get amount funded by %s: %w", address.Uint160ToString(funder), err)
		}

		fmt.Printf("  %s: %s GAS\n", address.Uint160ToString(funder), fixedn.Fixed8(amount.Int64()))
	}

	return nil
}

func parseUint160(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	return util.Uint160DecodeStringLE(s)
}
