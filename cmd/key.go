package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selflayer/selflayer-cli/internal/auth"
	"github.com/selflayer/selflayer-cli/internal/config"
)

// NewKeyCmd creates the key command with its set/clear/status subcommands
func NewKeyCmd() *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored API key",
		Long: `Manage the SelfLayer API key.

The key is stored locally and sent as a bearer token with every request.
The SELFLAYER_API_KEY environment variable, when set, takes precedence
over the stored key.

Examples:
  selflayer key set sl_live_abc123...
  selflayer key status
  selflayer key clear`,
	}

	keyCmd.AddCommand(&cobra.Command{
		Use:   "set <api-key>",
		Short: "Validate and store an API key",
		Args:  cobra.ExactArgs(1),
		RunE:  runKeySet,
	})
	keyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		RunE:  runKeyClear,
	})
	keyCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the configured key, masked",
		RunE:  runKeyStatus,
	})

	return keyCmd
}

func runKeySet(cmd *cobra.Command, args []string) error {
	if err := auth.SaveKey(args[0]); err != nil {
		return err
	}

	path, _ := auth.GetKeyPath()
	fmt.Println("API key saved.")
	fmt.Printf("Stored at: %s\n", path)
	if auth.FromEnv() {
		fmt.Println("Note: SELFLAYER_API_KEY is set and takes precedence over the stored key.")
	}
	return nil
}

func runKeyClear(cmd *cobra.Command, args []string) error {
	if err := auth.DeleteKey(); err != nil {
		return err
	}
	fmt.Println("API key removed.")
	return nil
}

func runKeyStatus(cmd *cobra.Command, args []string) error {
	key := auth.LoadKey()
	if key == "" {
		fmt.Println("No API key configured.")
		fmt.Println("Run 'selflayer key set <key>' or set SELFLAYER_API_KEY.")
		return nil
	}

	source := "file"
	if auth.FromEnv() {
		source = "environment"
	}
	fmt.Printf("API key: %s (from %s)\n", auth.MaskKey(key), source)
	return nil
}

// NewInitCmd creates the init command, which writes a commented default
// config file for the user to edit
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a commented default configuration file.

The file is created in the user config directory and is read on every
start. Flags and environment variables override its values.

Examples:
  selflayer init`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfigFile()
			if err != nil {
				return err
			}
			fmt.Printf("Config file created: %s\n", path)
			return nil
		},
	}
}
