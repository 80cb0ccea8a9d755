// Package cli wires the command line, configuration and the listing
// pipeline together.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hpctools/ldf/internal/config"
)

// version is set at build time with -ldflags.
var version = "dev"

var (
	cfgFile string

	flagJSON     bool
	flagCSV      bool
	flagInodes   bool
	flagVerbose  bool
	flagListCols bool
	flagFilter   string
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "ldf [path]",
	Short: "List mounted filesystems",
	Long: `ldf lists mounted filesystems with their disk usage, in a table,
JSON or CSV, with selectable columns, filters and sort order.
Lustre filesystems are expanded into their MDT and OST components.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		return run(cmd.Context(), path)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ldf version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ldf", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.Version = version
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ldf.yaml)")

	flags := rootCmd.Flags()
	flags.BoolP("all", "a", false, "list all mounts, including pseudo and bound ones")
	flags.BoolVarP(&flagInodes, "inodes", "i", false, "show inode counts instead of byte sizes")
	flags.StringP("cols", "c", "", "columns to display, e.g. 'fs+size+mount' or '+label' (see --list-cols)")
	flags.StringP("sort", "s", "", "sort column, with optional direction, e.g. 'size-desc'")
	flags.StringVarP(&flagFilter, "filter", "f", "", "filter expression, e.g. 'size>100G & type=xfs'")
	flags.StringP("units", "u", "si", "size units: si, binary or bytes")
	flags.BoolVarP(&flagJSON, "json", "j", false, "output JSON")
	flags.BoolVar(&flagCSV, "csv", false, "output CSV")
	flags.String("csv-separator", ",", "CSV column separator")
	flags.String("color", "auto", "use colors: yes, no or auto")
	flags.Bool("ascii", false, "only use ASCII characters")
	flags.Bool("remote-stats", true, "query stats of remote filesystems (disable if a dead NFS mount hangs)")
	flags.BoolVar(&flagListCols, "list-cols", false, "list the available columns")
	flags.BoolVar(&flagVerbose, "verbose", false, "log debug details to stderr")

	viper.BindPFlag("all", flags.Lookup("all"))
	viper.BindPFlag("cols", flags.Lookup("cols"))
	viper.BindPFlag("sort", flags.Lookup("sort"))
	viper.BindPFlag("units", flags.Lookup("units"))
	viper.BindPFlag("csv_separator", flags.Lookup("csv-separator"))
	viper.BindPFlag("color", flags.Lookup("color"))
	viper.BindPFlag("ascii", flags.Lookup("ascii"))
	viper.BindPFlag("remote_stats", flags.Lookup("remote-stats"))

	viper.SetEnvPrefix("LDF")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".ldf" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".ldf")
	}

	// a missing config file is fine, we run on defaults
	_ = viper.ReadInConfig()
}
