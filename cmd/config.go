package cmd

import (
	"fmt"
	"strings"

	"github.com/bazaargen/bazaargen/internal/config"
	"github.com/bazaargen/bazaargen/internal/output"
	"github.com/spf13/cobra"
)

func isValidConfigKey(key string) bool {
	for _, k := range config.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage workspace configuration",
	GroupID: "system",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]

		if !isValidConfigKey(key) {
			output.Error("unknown config key: %s", key)
			fmt.Println("Valid keys:", strings.Join(config.Keys(), ", "))
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := config.Set(getBaseDir(), key, val); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("%s = %s", key, val)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show a config value, or all values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := config.Keys()
		if len(args) == 1 {
			if !isValidConfigKey(args[0]) {
				output.Error("unknown config key: %s", args[0])
				return fmt.Errorf("unknown config key: %s", args[0])
			}
			keys = args
		}

		for _, key := range keys {
			val, err := config.Get(getBaseDir(), key)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if len(args) == 1 {
				fmt.Fprintln(cmd.OutOrStdout(), val)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, val)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}
