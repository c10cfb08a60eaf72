package main

import (
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/client"
	"github.com/spf13/cobra"
)

var signinEmail string

// signinCmd authenticates and stores the session
var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and store the session",
	RunE:  runSignin,
}

// passwordCmd changes the signed-in user's password
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the password of the signed-in user",
	RunE:  runPassword,
}

func init() {
	signinCmd.Flags().StringVarP(&signinEmail, "email", "e", "", "Account email")
	_ = signinCmd.MarkFlagRequired("email")
}

func runSignin(cmd *cobra.Command, args []string) error {
	password, err := readSecret(cmd, "Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	d := client.NewDataContext(newAPI())
	if err := d.SignIn(ctx, strings.TrimSpace(signinEmail), password); err != nil {
		return err
	}

	user, _ := d.User()
	if err := saveSession(sessionPath, &session{ServerURL: serverURL, Token: d.Token(), User: user}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (user %d), %d sections\n", user.Email, user.ID, len(d.Sections()))
	return nil
}

func runPassword(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := openSession(ctx)
	if err != nil {
		return err
	}

	current, err := readSecret(cmd, "Current password: ")
	if err != nil {
		return err
	}
	next, err := readSecret(cmd, "New password: ")
	if err != nil {
		return err
	}

	if err := d.ChangePassword(ctx, current, next); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Password updated")
	return nil
}
