package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/linecomp/codec"
	"github.com/arloliu/linecomp/format"
	"github.com/arloliu/linecomp/line"
)

var codecsCmd = &cobra.Command{
	Use:   "codecs",
	Short: "list the available codecs and their worst-case line size",
	Args:  cobra.NoArgs,
	RunE:  runCodecs,
}

func runCodecs(cmd *cobra.Command, _ []string) error {
	geom := line.DefaultGeometry()
	out := cmd.OutOrStdout()
	for _, kind := range format.CodecKinds() {
		c, err := codec.New(kind, geom)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-6s max %d bits per %s line\n", c.Name(), c.MaxBits(), geom)
	}

	fmt.Fprintln(out, "\nbaselines: None, Zstd, S2, LZ4")

	return nil
}
