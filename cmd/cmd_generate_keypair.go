package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"path"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/tickr-network/tickr/common"
)

type generateKeypairCmdOptions struct {
	Path string
}

func NewGenerateKeypairCommand() *cobra.Command {
	opts := &generateKeypairCmdOptions{}

	cmd := &cobra.Command{
		Use:   "generate-keypair",
		Short: "Generate a new wallet keypair for signing instructions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateKeypairHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Path, "path", "/data/keys", `Path to save the keypair files`)

	return cmd
}

func generateKeypairHandler(opts *generateKeypairCmdOptions, _ *cobra.Command, _ []string) error {
	fmt.Printf("Generating keypair\n")

	address, privateKey, err := common.NewWalletAddress()
	if err != nil {
		return errors.Wrap(err, "generate keypair")
	}
	fmt.Printf("Wallet address: %s\n", address)

	if err := os.MkdirAll(opts.Path, 0o755); err != nil {
		return errors.Wrap(err, "create directory")
	}

	privateKeyPath := path.Join(opts.Path, "priv.key")
	if _, err := os.Stat(privateKeyPath); err == nil {
		fmt.Printf("Existing private key found at %s\n[WARNING] THE EXISTING PRIVATE KEY WILL BE LOST\nType [replace] to replace existing private key: ", privateKeyPath)
		var ans string
		fmt.Scanln(&ans)
		if ans != "replace" {
			fmt.Printf("Keypair generation aborted\n")
			return nil
		}
	}

	if err := os.WriteFile(privateKeyPath, []byte(hex.EncodeToString(privateKey)), 0o600); err != nil {
		return errors.Wrap(err, "write private key file")
	}
	fmt.Printf("Private key saved at %s\n", privateKeyPath)

	addressPath := path.Join(opts.Path, "address.key")
	if err := os.WriteFile(addressPath, []byte(address.String()), 0o644); err != nil {
		return errors.Wrap(err, "write address file")
	}
	fmt.Printf("Wallet address saved at %s\n", addressPath)
	return nil
}
