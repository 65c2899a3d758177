package kv

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/sqKV/cmd/util"
	"github.com/ValentinKolb/sqKV/lib/store"
	"github.com/ValentinKolb/sqKV/lib/store/command"
	"github.com/spf13/cobra"
	"strings"
)

var (
	kvStore store.IStore

	// KeyValueCommands runs a single command against the database
	KeyValueCommands = &cobra.Command{
		Use:   "kv [COMMAND] [args...]",
		Short: "Run a command against the database",
		Long: util.WrapString(`Run a single Redis style command (e.g. "kv SET greet Hello" or
"kv SUNION english finnish") against the SQLite database and print the reply.
Command names are case insensitive. Use -- before arguments that start with a dash.`) +
			"\n\nSupported commands:\n" + supportedCommands(),
		Args:               cobra.MinimumNArgs(1),
		PersistentPreRunE:  openStore,
		PersistentPostRunE: closeStore,
		RunE:               runCommand,
	}
)

func init() {
	// Add subcommands
	KeyValueCommands.AddCommand(perfTestCmd)
}

// --------------------------------------------------------------------------
// Store lifecycle
// --------------------------------------------------------------------------

// openStore opens the store for the command. It is shared by all commands that
// operate on the database.
func openStore(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	s, err := util.OpenStore()
	if err != nil {
		return err
	}
	kvStore = s
	return nil
}

// closeStore closes the store opened by openStore
func closeStore(_ *cobra.Command, _ []string) error {
	if kvStore == nil {
		return nil
	}
	err := kvStore.Close()
	kvStore = nil
	return err
}

// --------------------------------------------------------------------------
// Command execution
// --------------------------------------------------------------------------

func runCommand(cmd *cobra.Command, args []string) error {
	raw := make([][]byte, len(args)-1)
	for i, arg := range args[1:] {
		raw[i] = []byte(arg)
	}

	reply, err := command.Dispatch(kvStore, args[0], raw...)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code != store.RetCInternalError {
			// print like redis-cli and keep the exit code for real failures
			cmd.SilenceUsage = true
			fmt.Fprintf(cmd.OutOrStdout(), "(error) %s\n", storeErr.Msg)
			return nil
		}
		cmd.SilenceUsage = true
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply.String())
	return nil
}

// supportedCommands lists all command names for the help text
func supportedCommands() string {
	names := make([]string, 0)
	for _, ct := range command.Commands() {
		names = append(names, ct.String())
	}
	return util.WrapString(strings.Join(names, " "))
}
