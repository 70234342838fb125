package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the library server URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if url, _ := cmd.Flags().GetString("server"); url != "" {
			cfg.Server.URL = url
			if err := config.SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Println("✓ Configuration saved!")
			return nil
		}
		return runSetupFlow(cfg)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the session for later runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			if email, err = promptLine("Email", ""); err != nil {
				return err
			}
		}
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()

		sess, err := a.session.Login(ctx, email, password)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Signed in as %s (%s)\n", sess.Name, sess.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.session.Logout(); err != nil {
			return err
		}
		fmt.Println("✓ Signed out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := promptLine("Name", "")
		if err != nil {
			return err
		}
		email, err := promptLine("Email", "")
		if err != nil {
			return err
		}
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()

		if err := a.session.Register(ctx, name, email, password); err != nil {
			return err
		}
		fmt.Println("✓ Account created. Run `shelf login` to sign in.")
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rotate the stored session tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := a.requestContext(cmd.Context())
		defer cancel()

		if err := a.session.Refresh(ctx); err != nil {
			if _, ok := a.session.Current(); !ok {
				return errors.New("session has ended, run `shelf login` to sign in again")
			}
			return err
		}
		fmt.Println("✓ Session refreshed")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sess, ok := a.session.Current()
		if !ok {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Printf("%s (%s)\n", sess.Name, sess.Role)
		fmt.Printf("  User ID: %s\n", sess.UserID)
		fmt.Printf("  Server:  %s\n", a.cfg.Server.URL)
		return nil
	},
}

func init() {
	setupCmd.Flags().String("server", "", "library server URL")
	loginCmd.Flags().String("email", "", "account email")
}
