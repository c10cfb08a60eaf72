package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/client"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	serverURL   string
	sessionPath string
	timeout     time.Duration

	// httpDoer replaces the default HTTP client in tests.
	httpDoer client.HTTPDoer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "portfolioctl",
	Short: "Edit a portfolio from the command line",
	Long: `portfolioctl signs in to a portfolio server and edits the profile and
sections of the signed-in user.

Run "portfolioctl signin" first; the session is kept in a local file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("PORTFOLIO_URL", "http://localhost:3001"), "Portfolio server base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", defaultSessionPath(), "Session file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(signinCmd)
	rootCmd.AddCommand(passwordCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func newAPI() *client.Client {
	return client.New(serverURL, httpDoer)
}

// openSession restores the saved session into a refreshed DataContext.
func openSession(ctx context.Context) (*client.DataContext, error) {
	s, err := loadSession(sessionPath)
	if err != nil {
		return nil, err
	}
	if s.ServerURL != "" && !rootCmd.PersistentFlags().Changed("server") {
		serverURL = s.ServerURL
	}

	d := client.NewDataContext(newAPI())
	if err := d.Restore(ctx, s.Token, s.User); err != nil {
		return nil, err
	}
	return d, nil
}

// readSecret reads a password without echo when stdin is a terminal.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(cmd.InOrStdin())
}

func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}
