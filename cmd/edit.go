package cmd

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"weave/scene"
	"weave/terminal"
)

var editCmd = &cobra.Command{
	Use:   "edit <diagram-id>",
	Short: "Open a diagram in the interactive editor",
	Args:  cobra.ExactArgs(1),
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

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal unavailable: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("terminal init: %w", err)
		}
		defer screen.Fini()

		var ed *terminal.Editor
		sc, err := scene.New(args[0], st,
			scene.WithLogger(log),
			scene.WithEvents(scene.Events{
				SaveFailed: func(err error) {
					if ed != nil {
						ed.SetStatus("save failed: " + err.Error())
					}
				},
			}),
		)
		if err != nil {
			return fmt.Errorf("open diagram %s: %w", args[0], err)
		}

		ed = terminal.NewEditor(screen, sc, log)
		return ed.Run()
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
