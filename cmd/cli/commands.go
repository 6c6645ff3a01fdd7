package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCreateUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-user <name> [email]",
		Short: "Create a user and print their invite code",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.repo.Close()

			var email *string
			if len(args) == 2 {
				email = &args[1]
			}
			user, err := e.services.Users.Create(cmd.Context(), args[0], email)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User created: %s\n", user.Name)
			fmt.Fprintf(out, "ID:          %s\n", user.ID)
			fmt.Fprintf(out, "Invite code: %s\n", user.InviteCode)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json> <user_id>",
		Short: "Import a legacy JSON dump into a user's account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := open()
			if err != nil {
				return err
			}
			defer e.repo.Close()

			n, err := e.services.Users.ImportLegacy(cmd.Context(), args[1], f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", n)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <user_id>",
		Short: "Write a user's entries as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.repo.Close()

			if _, err := e.services.Users.Get(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("user %q: %w", args[0], err)
			}
			out, err := e.services.Exports.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.repo.Close()

			version, err := e.repo.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database at schema version %d\n", version)
			return nil
		},
	}
}
