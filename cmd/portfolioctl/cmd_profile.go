package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// profileCmd is the parent command for profile editing
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit the profile",
}

var profileGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the profile as JSON",
	RunE:  runProfileGet,
}

var profileSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Set profile fields",
	Long: `Set one or more profile fields. Values that parse as JSON are stored as
such (numbers, arrays, objects); anything else is stored as a string.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProfileSet,
}

func init() {
	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileSetCmd)
}

func runProfileGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := openSession(ctx)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(d.Profile(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	patch, err := parseAssignments(args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := openSession(ctx)
	if err != nil {
		return err
	}
	if err := d.SaveProfile(ctx, patch); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile updated (%d fields)\n", len(patch))
	return nil
}

func parseAssignments(args []string) (map[string]any, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil && key != "nom" && key != "prenom" {
			patch[key] = decoded
		} else {
			patch[key] = value
		}
	}
	return patch, nil
}
