package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"PRNG/config"
	"PRNG/entropy"
	jwtutil "PRNG/jwt"
	"PRNG/wallet"
)

func newKeygenCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a secp256k1 signing key for a client or oracle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			signer, err := wallet.GenerateSigner()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out == "" {
				fmt.Fprintln(w, "key:", signer.Hex())
			} else if err := signer.Save(out); err != nil {
				return err
			}
			fmt.Fprintln(w, "address:", signer.Address())
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write the key to this file instead of printing it")
	return cmd
}

func newSignCmd() *cobra.Command {
	var (
		keyPath string
		message string
		random  bool
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the entropy triple for a message, signed with a key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if random == cmd.Flags().Changed("message") {
				return errors.New("exactly one of --message or --random is required")
			}
			signer, err := wallet.LoadSigner(keyPath)
			if err != nil {
				return err
			}
			var t entropy.Triple
			if random {
				t, err = signer.RandomEntropy()
			} else {
				t, err = signer.Entropy([]byte(message))
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, t)
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "hex private key file")
	cmd.Flags().StringVar(&message, "message", "", "message to sign")
	cmd.Flags().BoolVar(&random, "random", false, "sign a fresh random message")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject    string
		ttl        time.Duration
		secretFile string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for POST /api/random",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secretFile == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secretFile = cfg.JWTSecretFile
			}
			if secretFile == "" {
				return errors.New("no secret: set --secret-file or PRNG_JWT_SECRET_FILE")
			}
			secret, err := jwtutil.LoadSecret(secretFile)
			if err != nil {
				return err
			}
			auth, err := jwtutil.NewAuthenticator(secret)
			if err != nil {
				return err
			}
			token, err := auth.GenerateToken(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject, usually the provider name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&secretFile, "secret-file", "", "HMAC secret file (defaults to PRNG_JWT_SECRET_FILE)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
