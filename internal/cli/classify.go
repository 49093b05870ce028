package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Show the mood and color a text would get",
		Long:  "Run the configured classifier on text without saving anything.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runClassify,
	}

	RootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	text := strings.TrimSpace(strings.Join(args, " "))

	a := newApp()
	defer a.close()

	svc := a.classifier()
	res := svc.Classify(cmd.Context(), text)

	b, _ := json.Marshal(struct {
		Mood    string `json:"mood"`
		Color   string `json:"color"`
		Enabled bool   `json:"classifier_enabled"`
	}{string(res.Mood), res.Color, svc.Enabled()})
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
