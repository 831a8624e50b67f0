package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/popsearch/popsearch/internal/config"
	"github.com/popsearch/popsearch/internal/models"
)

var destCmd = &cobra.Command{
	Use:     "dest",
	Aliases: []string{"destination"},
	Short:   "Manage search destinations",
	Long: `Manage the destinations in ~/.popsearch/catalog.yaml.

A running daemon picks up changes automatically.`,
}

var destListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List destinations",
	Args:    cobra.NoArgs,
	RunE:    runDestList,
}

var destAddCmd = &cobra.Command{
	Use:   "add <name> <target>",
	Short: "Add a destination",
	Long: `Add a destination. The target is a URL, a file path or a command line.
{query} in the target is replaced by the query.`,
	Example: `  popsearch dest add Google 'https://www.google.com/search?q={query}' --category Search
  popsearch dest add Notes ~/notes/todo.md --kind file
  popsearch dest add Translate '~/bin/translate.py {query}' --kind command`,
	Args: cobra.ExactArgs(2),
	RunE: runDestAdd,
}

var destRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a destination",
	Args:    cobra.ExactArgs(1),
	RunE:    runDestRemove,
}

var destEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Show a destination in the overlay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDestSetEnabled(args[0], true)
	},
}

var destDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Hide a destination from the overlay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDestSetEnabled(args[0], false)
	},
}

var destExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export settings and destinations to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDestExport,
}

var destImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace settings and destinations from an exported file",
	Long: `Replace the catalog, and the settings when the file has them, with an
exported file. A bare catalog.yaml or a JSON file of the same shape is
accepted too.`,
	Args: cobra.ExactArgs(1),
	RunE: runDestImport,
}

var (
	flagDestKind     string
	flagDestCategory string
	flagDestIcon     string
)

func init() {
	destAddCmd.Flags().StringVar(&flagDestKind, "kind", "url", "Destination kind: url, file or command")
	destAddCmd.Flags().StringVar(&flagDestCategory, "category", "", "Category (default Unsorted)")
	destAddCmd.Flags().StringVar(&flagDestIcon, "icon", "", "Icon shown in the overlay")

	destCmd.AddCommand(destAddCmd)
	destCmd.AddCommand(destDisableCmd)
	destCmd.AddCommand(destEnableCmd)
	destCmd.AddCommand(destExportCmd)
	destCmd.AddCommand(destImportCmd)
	destCmd.AddCommand(destListCmd)
	destCmd.AddCommand(destRemoveCmd)
}

func runDestList(cmd *cobra.Command, args []string) error {
	catalog, err := config.LoadCatalog()
	if err != nil {
		return err
	}
	if len(catalog.Destinations) == 0 {
		fmt.Printf("No destinations. Run %s to add one.\n", styleCommand.Render("popsearch dest add"))
		return nil
	}

	for _, name := range categoryOrder(catalog) {
		fmt.Printf("%s %s\n", catalog.Icon(name), styleValue.Bold(true).Render(name))
		for _, d := range catalog.Destinations {
			if d.CategoryName() != name {
				continue
			}
			badge := badgeEnabled.Render("●")
			if !d.Enabled {
				badge = badgeDisabled.Render("○")
			}
			fmt.Printf("  %s %s  %-16s %s %s\n",
				badge,
				styleLabel.Render(d.ID),
				d.Name,
				styleHint.Render(d.Kind.String()),
				styleHint.Render(d.Target))
		}
	}
	return nil
}

// categoryOrder returns category names in order of first appearance.
func categoryOrder(catalog *models.Catalog) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range catalog.Destinations {
		name := catalog.Destinations[i].CategoryName()
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func runDestAdd(cmd *cobra.Command, args []string) error {
	d, err := newDestination(args[0], args[1], flagDestKind, flagDestCategory, flagDestIcon)
	if err != nil {
		return err
	}

	catalog, err := config.LoadCatalog()
	if err != nil {
		return err
	}
	catalog.Destinations = append(catalog.Destinations, d)
	if err := config.SaveCatalog(catalog); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	added := catalog.Destinations[len(catalog.Destinations)-1]
	fmt.Printf("%s %s %s\n", styleSuccess.Render("Added"), added.Name, styleLabel.Render("("+added.ID+")"))
	return nil
}

// newDestination validates a destination given on the command line.
func newDestination(name, target, kind, category, icon string) (models.Destination, error) {
	name = strings.TrimSpace(name)
	target = strings.TrimSpace(target)
	if name == "" {
		return models.Destination{}, fmt.Errorf("name is required")
	}
	if target == "" {
		return models.Destination{}, fmt.Errorf("target is required")
	}
	k, err := models.ParseKind(kind)
	if err != nil {
		return models.Destination{}, err
	}
	if k == models.KindURL && !strings.Contains(target, ":") {
		return models.Destination{}, fmt.Errorf("url target %q has no scheme", target)
	}
	return models.Destination{
		Name:     name,
		Target:   target,
		Kind:     k,
		Enabled:  true,
		Category: strings.TrimSpace(category),
		Icon:     icon,
	}, nil
}

func runDestRemove(cmd *cobra.Command, args []string) error {
	catalog, err := config.LoadCatalog()
	if err != nil {
		return err
	}
	d, ok := catalog.Find(args[0])
	if !ok {
		return fmt.Errorf("no destination with ID %q", args[0])
	}
	name := d.Name
	catalog.Remove(args[0])
	if err := config.SaveCatalog(catalog); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	fmt.Printf("%s %s\n", styleSuccess.Render("Removed"), name)
	return nil
}

func runDestSetEnabled(id string, enabled bool) error {
	catalog, err := config.LoadCatalog()
	if err != nil {
		return err
	}
	d, ok := catalog.Find(id)
	if !ok {
		return fmt.Errorf("no destination with ID %q", id)
	}
	d.Enabled = enabled
	if err := config.SaveCatalog(catalog); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	verb := "Disabled"
	if enabled {
		verb = "Enabled"
	}
	fmt.Printf("%s %s\n", styleSuccess.Render(verb), d.Name)
	return nil
}

func runDestExport(cmd *cobra.Command, args []string) error {
	b, err := config.ExportBundle(args[0])
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	fmt.Printf("%s %d destinations to %s\n", styleSuccess.Render("Exported"), len(b.Catalog.Destinations), args[0])
	return nil
}

func runDestImport(cmd *cobra.Command, args []string) error {
	b, err := config.ImportBundle(args[0])
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	what := "destinations"
	if b.Settings != nil {
		what = "destinations and settings"
	}
	fmt.Printf("%s %d %s from %s\n", styleSuccess.Render("Imported"), len(b.Catalog.Destinations), what, args[0])
	return nil
}
