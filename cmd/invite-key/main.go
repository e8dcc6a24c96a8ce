// Package main provides a one-shot utility for invitation key generation.
//
// It emits the asymmetric keypair used to sign helper invitation tokens.
package main

import (
	"os"

	"github.com/calshare/calshare/internal/platform/config"
	"github.com/calshare/calshare/internal/tools/invitekey"
)

func main() {
	if err := invitekey.Run(os.Stdout, nil); err != nil {
		config.Exitf("generate invite key: %v", err)
	}
}
