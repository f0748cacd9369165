package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in and store the session locally",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <name> <email> <password>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.Register(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Registered as %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return client.Logout()
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the signed-in user's profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.Profile(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> (id %d, role %s, since %s)\n",
			user.Name, user.Email, user.ID, user.Role, user.CreatedAt)
		return nil
	},
}

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset code by email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := client.RequestPasswordReset(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <code> <new-password>",
	Short: "Set a new password using a reset code",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.ResetPassword(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Password updated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, profileCmd, forgotPasswordCmd, resetPasswordCmd)
}
