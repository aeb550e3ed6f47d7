package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/tickr-network/tickr/common/errs"
	"github.com/tickr-network/tickr/modules/marketplace/constants"
)

// Version is the service release version.
const Version = "v0.1.0"

var versions = map[string]string{
	"":            Version,
	"marketplace": constants.Version,
}

type versionCmdOptions struct {
	Modules string
}

func NewVersionCommand() *cobra.Command {
	opts := &versionCmdOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show tickr version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return versionHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Modules, "module", "", `Show version of a specific module. E.g. "marketplace"`)

	return cmd
}

func versionHandler(opts *versionCmdOptions, _ *cobra.Command, _ []string) error {
	version, ok := versions[opts.Modules]
	if !ok {
		return errors.Wrap(errs.Unsupported, "Invalid module name")
	}
	fmt.Println(version)
	return nil
}
