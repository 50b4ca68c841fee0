package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errProofFailed makes verify exit non-zero without printing an error.
var errProofFailed = errors.New("proof failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "prng",
		Short:         "Dual entropy random generation with recomputation proofs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newKeygenCmd(),
		newSignCmd(),
		newGenerateCmd(),
		newVerifyCmd(),
		newTokenCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errProofFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
