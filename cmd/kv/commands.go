package kv

import (
	"bufio"
	"encoding/json"
	"fmt"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"io"
	"os"
)

var (
	// DumpCmd writes a compressed snapshot of the database
	DumpCmd = &cobra.Command{
		Use:                "dump [file]",
		Short:              "Writes a snapshot of the database to a file (- for stdout)",
		Args:               cobra.ExactArgs(1),
		PersistentPreRunE:  openStore,
		PersistentPostRunE: closeStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if args[0] != "-" {
				file, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create dump file: %w", err)
				}
				defer file.Close()
				w = file
			}

			buffered := bufio.NewWriter(w)
			if err := kvStore.Save(buffered); err != nil {
				return err
			}
			if err := buffered.Flush(); err != nil {
				return fmt.Errorf("failed to write dump: %w", err)
			}

			if args[0] != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "dump written to %s\n", args[0])
			}
			return nil
		},
	}

	// RestoreCmd replaces the contents of the database with a snapshot
	RestoreCmd = &cobra.Command{
		Use:                "restore [file]",
		Short:              "Replaces the database contents with a snapshot (- for stdin)",
		Args:               cobra.ExactArgs(1),
		PersistentPreRunE:  openStore,
		PersistentPostRunE: closeStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open dump file: %w", err)
				}
				defer file.Close()
				r = file
			}

			if err := kvStore.Load(bufio.NewReader(r)); err != nil {
				return err
			}

			size, err := kvStore.DBSize()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d keys\n", size)
			return nil
		},
	}

	// InfoCmd prints details about the database
	InfoCmd = &cobra.Command{
		Use:                "info",
		Short:              "Prints details about the database file",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  openStore,
		PersistentPostRunE: closeStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := kvStore.GetDBInfo()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	// StatsCmd prints the metrics collected while querying the database in Prometheus format
	StatsCmd = &cobra.Command{
		Use:                "stats",
		Short:              "Prints process and statement metrics in Prometheus text format",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  openStore,
		PersistentPostRunE: closeStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			// touch every table so the statement histogram is populated
			if _, err := kvStore.GetDBInfo(); err != nil {
				return err
			}
			metrics.WritePrometheus(cmd.OutOrStdout(), true)
			return nil
		},
	}
)
