//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The galaxy viewer requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/galaxy` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "For headless use see ./cmd/galaxy-gen and ./cmd/galaxy-server.")
	os.Exit(2)
}
