// Package cmd contains the dash CLI subcommands.
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klondike-tools/dash/cli"
	"github.com/klondike-tools/dash/config"
	"github.com/klondike-tools/dash/pkg/api"
)

// setup loads configuration and builds the API client for one command run.
func setup(cmd *cobra.Command) (*config.Config, *api.Client, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return cfg, api.NewClient(cfg.Server.URL, cfg.RequestTimeout()), nil
}

// handle routes errors through the user-facing error handler.
func handle(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	opts := cli.GetOptions(cmd)
	return cli.NewErrorHandler(opts.Verbose).Handle(err)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
