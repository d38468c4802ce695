package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored diagrams",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()

		ids, titles, err := st.ListDiagrams()
		if err != nil {
			return err
		}
		for i, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, titles[i])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
