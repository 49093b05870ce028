package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Hang a new memory",
		Long:  "Hang a new memory on the board. Content can be a positional arg or piped via stdin.",
		Run:   runAdd,
	}

	cmd.Flags().StringP("author", "a", "", "Author (optional, max 50 characters)")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	author, _ := cmd.Flags().GetString("author")

	// Get content: positional arg first, then check stdin
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		exitErr("add", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	a := newApp()
	defer a.close()
	b := a.board()

	mem, err := b.Create(cmd.Context(), content, author)
	if err != nil {
		exitErr("add", err)
	}
	b.Close()

	if ev, ok := b.WriteStatus(mem.ID); ok && ev.Error != "" {
		exitErr("save", fmt.Errorf("%s", ev.Error))
	}

	out, _ := json.Marshal(mem)
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}
