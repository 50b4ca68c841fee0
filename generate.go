package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"PRNG/auditlog"
	"PRNG/config"
	"PRNG/entropy"
	"PRNG/prng"
	"PRNG/wallet"
)

func newGenerateCmd() *cobra.Command {
	var (
		clientKey string
		oracleKey string
		length    uint64
		dbPath    string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Sign fresh entropy with both keys and generate a result offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client, err := signedEntropy(clientKey)
			if err != nil {
				return fmt.Errorf("client: %w", err)
			}
			oracle, err := signedEntropy(oracleKey)
			if err != nil {
				return fmt.Errorf("oracle: %w", err)
			}

			var store auditlog.Log = auditlog.NewMemoryLog()
			if dbPath != "" {
				if store, err = auditlog.OpenBolt(dbPath); err != nil {
					return err
				}
			}
			defer store.Close()

			svc := prng.NewService(store, prng.WithMaxLength(cfg.MaxLength))
			rec, err := svc.Generate(cmd.Context(), client, oracle, length)
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	}
	cmd.Flags().StringVar(&clientKey, "client", "", "client key file")
	cmd.Flags().StringVar(&oracleKey, "oracle", "", "oracle key file")
	cmd.Flags().Uint64Var(&length, "length", 32, "result length in bytes")
	cmd.Flags().StringVar(&dbPath, "db", "", "bolt audit log to append to (in memory when empty)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("oracle")
	return cmd
}

func signedEntropy(keyPath string) (entropy.Triple, error) {
	signer, err := wallet.LoadSigner(keyPath)
	if err != nil {
		return entropy.Triple{}, err
	}
	return signer.RandomEntropy()
}

func newVerifyCmd() *cobra.Command {
	var (
		result string
		s1, s2 string
		length uint64
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a published result against its seeds and length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok := prng.VerifyHex(result, s1, s2, length)
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			if !ok {
				return errProofFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&result, "result", "", "result hex")
	cmd.Flags().StringVar(&s1, "s1", "", "client seed hex")
	cmd.Flags().StringVar(&s2, "s2", "", "oracle seed hex")
	cmd.Flags().Uint64Var(&length, "length", 0, "result length in bytes")
	for _, name := range []string{"result", "s1", "s2", "length"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
