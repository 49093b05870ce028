package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/arsip-kita/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memories, newest first",
		Run:   runList,
	}

	cmd.Flags().String("mood", "", "Filter by mood")
	cmd.Flags().StringP("author", "a", "", "Filter by author")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 = all)")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	moodStr, _ := cmd.Flags().GetString("mood")
	author, _ := cmd.Flags().GetString("author")
	limit, _ := cmd.Flags().GetInt("limit")

	var mood model.Mood
	if moodStr != "" {
		var ok bool
		if mood, ok = model.ParseMood(moodStr); !ok {
			exitErr("list", fmt.Errorf("invalid mood %q", moodStr))
		}
	}

	a := newApp()
	defer a.close()

	b := a.board()
	b.Load(cmd.Context())
	defer b.Close()

	memories := filterMemories(b.Memories(), mood, author, limit)

	out, _ := json.MarshalIndent(memories, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}

func filterMemories(in []model.Memory, mood model.Mood, author string, limit int) []model.Memory {
	out := make([]model.Memory, 0, len(in))
	for _, m := range in {
		if mood != "" && m.Mood != mood {
			continue
		}
		if author != "" && m.Author != author {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
