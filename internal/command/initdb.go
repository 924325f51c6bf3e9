package command

import (
	"bytes"
	"errors"

	"github.com/spf13/cobra"
)

func initDBCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Reinitialize the database",
		Long: "Drops every table and recreates the schema. All users and posts are\n" +
			"permanently deleted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			_, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			if !yes {
				resp, err := prompt("This deletes all data. Continue? [y|N] ", false)
				if !bytes.Equal(resp, []byte{'y'}) || err != nil {
					logger.InfoContext(cmd.Context(), "aborted database initialization")
					return err
				}
			}
			if err = store.Reset(cmd.Context()); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "initialized the database")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
