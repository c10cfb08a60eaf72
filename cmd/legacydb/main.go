package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/legacy"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/store"
	"github.com/spf13/cobra"
)

var (
	dbPath    string
	storePath string
	doImport  bool
)

var rootCmd = &cobra.Command{
	Use:   "legacydb",
	Short: "Inspect the legacy SQLite database",
	Long: `Inspect the legacy SQLite users/profiles database.

With --import, users (matched by email) and their profiles are copied
into the JSON content store given by --store.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "database.sqlite", "Path to the legacy SQLite file")
	rootCmd.Flags().StringVar(&storePath, "store", "data/portfolio.json", "Content store file to import into")
	rootCmd.Flags().BoolVar(&doImport, "import", false, "Import users and profiles into the content store")
}

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"))
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer) error {
	db, err := legacy.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := legacy.Inspect(ctx, db)
	if err != nil {
		return err
	}
	printReport(out, report)

	if !doImport {
		return nil
	}

	st := store.New(store.NewFileBackend(storePath))
	res, err := legacy.Import(ctx, db, st)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(out, "\nImported into %s: %d users (%d skipped), %d profiles (%d skipped)\n",
		storePath, res.UsersImported, res.UsersSkipped, res.ProfilesImported, res.ProfilesSkipped)
	return nil
}

func printReport(out io.Writer, r *legacy.Report) {
	fmt.Fprintf(out, "Tables: %s\n", strings.Join(r.Tables, ", "))

	fmt.Fprintf(out, "\nTotal users: %d\n", len(r.Users))
	for _, u := range r.Users {
		fmt.Fprintf(out, "  - #%d %s\n", u.ID, u.Email)
	}

	fmt.Fprintf(out, "\nTotal profiles: %d\n", len(r.Profiles))
	for _, p := range r.Profiles {
		name := strings.TrimSpace(p.Prenom + " " + p.Nom)
		fmt.Fprintf(out, "  - #%d user=%d %s (%d extra fields)\n", p.ID, p.UserID, name, len(p.Fields))
	}
}
