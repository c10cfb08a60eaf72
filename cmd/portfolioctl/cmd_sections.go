package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
	"github.com/spf13/cobra"
)

var (
	sectionTitle   string
	sectionType    string
	sectionContent string
	sectionHidden  bool
)

// sectionsCmd is the parent command for section management
var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Manage portfolio sections",
	Long: `Manage the sections of the signed-in user.

Available subcommands:
  list    - List sections in stored order
  add     - Create a section
  delete  - Delete a section by id
  reorder - Set section orders (id=order ...)`,
}

var sectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections",
	RunE:  runSectionsList,
}

var sectionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a section",
	Long: `Create a section. --content is sent as JSON when it parses as JSON
(e.g. '["a","b"]' for a list), otherwise as a plain string.`,
	RunE: runSectionsAdd,
}

var sectionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a section",
	Args:  cobra.ExactArgs(1),
	RunE:  runSectionsDelete,
}

var sectionsReorderCmd = &cobra.Command{
	Use:   "reorder id=order...",
	Short: "Set section orders",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSectionsReorder,
}

func init() {
	sectionsAddCmd.Flags().StringVar(&sectionTitle, "title", "", "Section title")
	sectionsAddCmd.Flags().StringVar(&sectionType, "type", string(models.SectionText), "Section type: text, list or cards")
	sectionsAddCmd.Flags().StringVar(&sectionContent, "content", "", "Section content")
	sectionsAddCmd.Flags().BoolVar(&sectionHidden, "hidden", false, "Create the section hidden")

	sectionsCmd.AddCommand(sectionsListCmd)
	sectionsCmd.AddCommand(sectionsAddCmd)
	sectionsCmd.AddCommand(sectionsDeleteCmd)
	sectionsCmd.AddCommand(sectionsReorderCmd)
}

func runSectionsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := openSession(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORDER\tTYPE\tVISIBLE\tTITLE")
	for _, s := range d.Sections() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%t\t%s\n", s.ID, s.Order, s.Type, s.Visible, s.Title)
	}
	return w.Flush()
}

func runSectionsAdd(cmd *cobra.Command, args []string) error {
	patch, err := buildSectionPatch(sectionTitle, sectionType, sectionContent, !sectionHidden)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := openSession(ctx)
	if err != nil {
		return err
	}

	id, err := d.AddSection(ctx, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", id)
	return nil
}

func runSectionsDelete(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := openSession(ctx)
	if err != nil {
		return err
	}
	if err := d.DeleteSection(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runSectionsReorder(cmd *cobra.Command, args []string) error {
	updates, err := parseOrders(args)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	d, err := openSession(ctx)
	if err != nil {
		return err
	}
	if err := d.ReorderSections(ctx, updates); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reordered %d sections\n", len(updates))
	return nil
}

func buildSectionPatch(title, typ, content string, visible bool) (*dto.SectionPatch, error) {
	t := models.SectionType(typ)
	if !t.Valid() {
		return nil, fmt.Errorf("unknown section type %q", typ)
	}

	patch := &dto.SectionPatch{Title: &title, Type: &t, Visible: &visible}
	if content != "" {
		if t != models.SectionText && json.Valid([]byte(content)) {
			patch.Content = json.RawMessage(content)
		} else {
			encoded, err := json.Marshal(content)
			if err != nil {
				return nil, err
			}
			patch.Content = encoded
		}
	}
	return patch, nil
}

func parseOrders(args []string) ([]dto.SectionOrder, error) {
	out := make([]dto.SectionOrder, 0, len(args))
	for _, arg := range args {
		id, raw, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("expected id=order, got %q", arg)
		}
		order, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid order in %q: %w", arg, err)
		}
		out = append(out, dto.SectionOrder{ID: strings.TrimSpace(id), Order: order})
	}
	return out, nil
}
