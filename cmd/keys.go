package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// keysCmd is the parent command for custom targeting key operations.
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage custom targeting keys",
}

var createKeyCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a freeform custom targeting key",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateKey,
}

func init() {
	keysCmd.AddCommand(createKeyCmd)
	RootCmd.AddCommand(keysCmd)
}

func runCreateKey(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, _, session, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	key, err := session.Targeting().CreateKey(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Created key %q (id %d)\n", key.Name, key.ID)
	return nil
}
