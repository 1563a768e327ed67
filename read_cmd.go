package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/voxcli/vox/internal/markdown"
)

var readCmd = &cobra.Command{
	Use:   "read [FILE]",
	Short: "Read a markdown document aloud",
	Long: paragraph(
		fmt.Sprintf("\n%s a markdown file aloud, block by block. Use '-' or pipe to read from stdin.", keyword("Read")),
	),
	Example: paragraph("vox read README.md\ncat notes.md | vox read -"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var reader io.Reader = os.Stdin
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("unable to open file: %w", err)
			}
			defer f.Close() //nolint:errcheck
			reader = f
		}

		source, err := io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("unable to read source: %w", err)
		}

		speaker, closeCache := newSpeaker()
		defer closeCache() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		for _, chunk := range markdown.Flatten(string(source)) {
			if err := ctx.Err(); err != nil {
				return nil //nolint:nilerr
			}
			fmt.Println(chunk)
			speaker.Say(ctx, chunk)
		}
		return nil
	},
}
