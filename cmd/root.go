package cmd

import (
	"fmt"
	"github.com/ValentinKolb/sqKV/cmd/kv"
	"github.com/ValentinKolb/sqKV/cmd/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "sqkv",
		Short: "Redis style key-value store on SQLite",
		Long: fmt.Sprintf(`sqKV (v%s)

A key-value store with a subset of the Redis command set (strings, sets, bit
operations and key enumeration), persisted in a single SQLite database file.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sqKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sqKV v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper and the loggers once the flags are parsed
	cobra.OnInitialize(util.InitConfig, initLoggers)

	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(kv.DumpCmd)
	RootCmd.AddCommand(kv.RestoreCmd)
	RootCmd.AddCommand(kv.InfoCmd)
	RootCmd.AddCommand(kv.StatsCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupStoreFlags(RootCmd)
	_ = viper.BindPFlags(RootCmd.PersistentFlags())
}

// initLoggers applies the configured log level
func initLoggers() {
	if err := util.InitLoggers(viper.GetString("log-level")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
