package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/domain"
)

// Profile commands
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View or change your account",
}

var profileShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show a profile (your own by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		p, err := a.profiles.Get(ctx, firstArg(args))
		if err != nil {
			return reported(err)
		}

		fmt.Printf("%s <%s>\n", p.Name, p.Email)
		fmt.Printf("  Role:    %s\n", p.Role)
		fmt.Printf("  User ID: %s\n", p.ID)
		if !p.CreatedAt.IsZero() {
			fmt.Printf("  Joined:  %s\n", p.CreatedAt.Format("Jan 2, 2006"))
		}
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update [user-id]",
	Short: "Change name, email or password",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var update domain.ProfileUpdate
		update.Name, _ = cmd.Flags().GetString("name")
		update.Email, _ = cmd.Flags().GetString("email")
		if ask, _ := cmd.Flags().GetBool("password"); ask {
			if update.Password, err = promptPassword("New password"); err != nil {
				return err
			}
		}

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		if _, err := a.profiles.Update(ctx, firstArg(args), update); err != nil {
			return reported(err)
		}
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete [user-id]",
	Short: "Delete an account (your own by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			answer, err := promptLine("Type DELETE to confirm", "")
			if err != nil {
				return err
			}
			if strings.TrimSpace(answer) != "DELETE" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()
		return reported(a.profiles.Delete(ctx, firstArg(args)))
	},
}

func init() {
	profileUpdateCmd.Flags().String("name", "", "new display name")
	profileUpdateCmd.Flags().String("email", "", "new email")
	profileUpdateCmd.Flags().Bool("password", false, "prompt for a new password")
	profileDeleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
