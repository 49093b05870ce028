package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a memory",
		Long:  "Delete a memory. Requires the board's delete password.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	cmd.Flags().StringP("password", "p", "", "Delete password (required)")
	cmd.MarkFlagRequired("password")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	id := args[0]
	password, _ := cmd.Flags().GetString("password")

	a := newApp()
	defer a.close()

	b := a.board()
	b.Load(cmd.Context())
	defer b.Close()

	_, present := b.Get(id)

	b.RequestDelete(id)
	deleted, err := b.ConfirmDelete(cmd.Context(), password)
	if err != nil {
		exitErr("rm", err)
	}
	if !deleted {
		b.CancelDelete()
		exitErr("rm", fmt.Errorf("wrong password"))
	}
	b.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"present":%t}`+"\n", id, present)
}
