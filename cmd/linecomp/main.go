// Command linecomp runs memory traces through the cache-line codecs and
// reports the resulting page compression ratios.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "linecomp [command] (flags)",
	Short:        "cache-line compression simulator",
	Long:         ``,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd, codecsCmd)
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
