package command

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stolasapp/quill/internal/sec"
	"github.com/stolasapp/quill/internal/storage/db"
)

const userListPageSize = 100

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userCreateCommand(),
		userDeleteCommand(),
		userListCommand(),
	)
	return cmd
}

func userCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create user",
		Long: "Creates user entry for the provided username and password. Passwords may be\n" +
			"provided via stdin or through the interactive prompt.",

		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()
			ctx, release := store.Scope(cmd.Context())
			defer func() { runErr = errors.Join(runErr, release()) }()

			name := args[0]
			passwd, err := prompt("password: ", true)
			if err != nil {
				return err
			} else if len(passwd) == 0 {
				return errors.New("password is required")
			}
			hash, err := sec.HashPassword(passwd)
			if err != nil {
				return err
			}
			user, err := store.CreateUser(ctx, db.User{
				Name:         name,
				PasswordHash: hash,
			})
			if err != nil {
				return err
			}

			logger.InfoContext(ctx, "created user",
				slog.String("name", user.Name),
				slog.Uint64("user_id", user.ID),
			)
			return nil
		},
	}
}

func userDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete user",
		Long: "Permanently deletes the user and all of their posts. " +
			"This operation is permanent and irreversible.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			_, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()
			ctx, release := store.Scope(cmd.Context())
			defer func() { runErr = errors.Join(runErr, release()) }()

			name := args[0]
			logger = logger.With(slog.String("name", name))
			user, err := store.GetUserByName(ctx, name)
			if err != nil {
				return err
			}
			resp, err := prompt("Are you sure you want to delete this user? [y|N] ", false)
			if !bytes.Equal(resp, []byte{'y'}) || err != nil {
				logger.InfoContext(ctx, "aborted user deletion")
				return err
			}
			if err = store.DeleteUser(ctx, user.ID); err != nil {
				return err
			}
			logger.InfoContext(ctx, "user deleted")
			return nil
		},
	}
}

func userListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			_, _, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()
			ctx, release := store.Scope(cmd.Context())
			defer func() { runErr = errors.Join(runErr, release()) }()

			out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // column padding
			if _, err = fmt.Fprintln(out, "ID\tNAME"); err != nil {
				return err
			}
			after := ""
			for {
				users, err := store.ListUsers(ctx, after, userListPageSize)
				if err != nil {
					return err
				}
				for _, user := range users {
					if _, err = fmt.Fprintf(out, "%d\t%s\n", user.ID, user.Name); err != nil {
						return err
					}
				}
				if len(users) < userListPageSize {
					break
				}
				after = users[len(users)-1].Name
			}
			return out.Flush()
		},
	}
}
