package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"weave/diagram"
)

var importID string

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a diagram JSON file into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		d, err := diagram.Unmarshal(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		if importID != "" {
			d.ID = importID
		}
		if d.ID == "" {
			return fmt.Errorf("%s carries no diagram id; pass --id", args[0])
		}
		if n := d.Prune(log); n > 0 {
			log.Warn("dropped dangling connectors on import", zap.Int("count", n))
		}

		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Save(d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d nodes, %d connectors)\n",
			d.ID, len(d.Nodes), len(d.Connectors))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importID, "id", "", "override the diagram id")
	rootCmd.AddCommand(importCmd)
}
