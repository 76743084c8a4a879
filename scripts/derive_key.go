// derive_key.go prints the first addresses of m/44'/60'/<account>'/0/i for a
// recovery phrase read from a file.
// Usage: go run scripts/derive_key.go [-account N] [-count N] [-passphrase P] <phrasefile>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Klingon-tech/klingwallet/internal/wallet"
)

func main() {
	account := flag.Uint("account", 0, "BIP-44 account index")
	count := flag.Uint("count", 5, "Number of addresses to print")
	passphrase := flag.String("passphrase", "", "Optional BIP-39 passphrase")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: derive_key [-account N] [-count N] [-passphrase P] <phrasefile>")
		os.Exit(1)
	}
	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	m, err := wallet.ValidateMnemonic(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, wallet.MessageOf(err))
		os.Exit(1)
	}
	for i := uint32(0); i < uint32(*count); i++ {
		addr, err := wallet.DeriveAccountAddress(m, *passphrase, uint32(*account), i)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("m/44'/60'/%d'/0/%d  %s\n", *account, i, addr.Hex())
	}
}
