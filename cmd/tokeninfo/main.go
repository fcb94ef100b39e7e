package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/aurumlabs/aurum-contract/rpc/token"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractHash := flag.String("contract", "", "Aurum token contract hash (LE hex)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractHash == "":
		log.Fatal("missing contract hash")
	}

	h, err := util.Uint160DecodeStringLE(*contractHash)
	if err != nil {
		log.Fatal(fmt.Errorf("decode contract hash: %w", err))
	}

	err = printTokenInfo(*neoRPCEndpoint, h)
	if err != nil {
		log.Fatal(err)
	}
}

func printTokenInfo(neoBlockchainRPCEndpoint string, contract util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	reader := token.NewReader(b.invoker, contract)

	name, err := reader.Name()
	if err != nil {
		return fmt.Errorf("get token name: %w", err)
	}
	symbol, err := reader.Symbol()
	if err != nil {
		return fmt.Errorf("get token symbol: %w", err)
	}
	decimals, err := reader.Decimals()
	if err != nil {
		return fmt.Errorf("get token decimals: %w", err)
	}
	supply, err := reader.TotalSupply()
	if err != nil {
		return fmt.Errorf("get total supply: %w", err)
	}
	version, err := reader.Version()
	if err != nil {
		return fmt.Errorf("get contract version: %w", err)
	}

	fmt.Printf("Token:        %s (%s), %d decimals\n", name, symbol, decimals)
	fmt.Printf("Total supply: %s\n", supply)
	fmt.Printf("Version:      %s\n", version)
	fmt.Printf("Block height: %d\n", b.currentBlock)

	admin, err := reader.Admin()
	if err != nil {
		return fmt.Errorf("get admin: %w", err)
	}
	recipient, err := reader.RecipientAddress()
	if err != nil {
		return fmt.Errorf("get recipient address: %w", err)
	}
	paymentToken, err := reader.PaymentTokenAddress()
	if err != nil {
		return fmt.Errorf("get payment token address: %w", err)
	}
	price, err := reader.SpotPricePerGram()
	if err != nil {
		return fmt.Errorf("get spot price: %w", err)
	}

	fmt.Printf("Admin:          %s\n", address.Uint160ToString(admin))
	fmt.Printf("Recipient:      %s\n", address.Uint160ToString(recipient))
	fmt.Printf("Payment token:  %s\n", paymentToken.StringLE())
	fmt.Printf("Spot price:     %s per gram\n", price)

	return printHolders(b, reader)
}

func printHolders(b *remoteBlockchain, reader *token.ContractReader) error {
	sessionID, iter, err := reader.Holders()
	if err != nil {
		return fmt.Errorf("open holders iterator: %w", err)
	}

	defer func() {
		_ = b.invoker.TerminateSession(sessionID)
	}()

	fmt.Println("Holders:")

	n := 0
	for {
		items, err := b.invoker.TraverseIterator(sessionID, &iter, 100)
		if err != nil {
			return fmt.Errorf("traverse holders iterator: %w", err)
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			raw, err := item.TryBytes()
			if err != nil {
				return fmt.Errorf("decode holder key: %w", err)
			}
			acc, err := util.Uint160DecodeBytesBE(raw)
			if err != nil {
				return fmt.Errorf("decode holder account: %w", err)
			}

			balance, err := reader.BalanceOf(acc)
			if err != nil {
				return fmt.Errorf("get balance of %s: %w", address.Uint160ToString(acc), err)
			}

			fmt.Printf("  %s: %s\n", address.Uint160ToString(acc), balance)
			n++
		}
	}

	fmt.Printf("%d holder(s) total\n", n)

	return nil
}
