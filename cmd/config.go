package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/klondike-tools/dash/cli"
	"github.com/klondike-tools/dash/config"
	"github.com/klondike-tools/dash/logging"
)

// NewConfigCmd creates the `config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate the dash configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return handle(cmd, err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return printJSON(cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a dash.yml against the configuration schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pretty := logging.NewPrettyLogger()

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else if flagPath, _ := cmd.Flags().GetString("config"); flagPath != "" {
				path = flagPath
			} else if found, ok := config.FindConfigFile(); ok {
				path = found
			} else {
				pretty.InfoPretty("No dash.yml found; defaults are in effect and always valid.")
				return nil
			}

			if _, err := config.Load(path); err != nil {
				pretty.Error(fmt.Sprintf("%s is invalid", path))
				fmt.Fprintln(os.Stderr, err.Error())
				return err
			}
			pretty.Success(fmt.Sprintf("%s is valid", path))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the path of the active configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagPath, _ := cmd.Flags().GetString("config"); flagPath != "" {
				fmt.Println(flagPath)
				return nil
			}
			if path, ok := config.FindConfigFile(); ok {
				fmt.Println(path)
				return nil
			}
			fmt.Println("(no config file; built-in defaults)")
			return nil
		},
	}
}
