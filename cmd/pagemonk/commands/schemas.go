package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagemonk/pagemonk/cmd/pagemonk/ui"
	"github.com/pagemonk/pagemonk/internal/domain"
)

var (
	schemaDescription string
	schemaFields      []string
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Manage extraction schemas",
}

var schemasCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an extraction schema",
	Long: `Create an extraction schema from repeated --field flags. Each field
is declared as name:type, where type is one of text, number, date,
boolean, list or object.

Example:
  pagemonk schemas create Invoice -d "Invoice fields" \
      --field total:number --field date:date`,
	Args: cobra.ExactArgs(1),
	RunE: runSchemasCreate,
}

var schemasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all schemas",
	RunE:  runSchemasList,
}

var schemasDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemasDelete,
}

func init() {
	schemasCreateCmd.Flags().StringVarP(&schemaDescription, "description", "d", "", "schema description")
	schemasCreateCmd.Flags().StringArrayVarP(&schemaFields, "field", "f", nil, "field declaration as name:type (repeatable)")
	schemasCmd.AddCommand(schemasCreateCmd)
	schemasCmd.AddCommand(schemasListCmd)
	schemasCmd.AddCommand(schemasDeleteCmd)
	rootCmd.AddCommand(schemasCmd)
}

func runSchemasCreate(cmd *cobra.Command, args []string) error {
	_, _, cl, err := setup()
	if err != nil {
		return err
	}
	ui.Init(noColor, verbose)

	fields, err := parseFieldFlags(schemaFields)
	if err != nil {
		return err
	}

	// Validation happens before any request is made
	def, err := domain.NewSchemaDefinition(args[0], schemaDescription, fields)
	if err != nil {
		return err
	}

	schema, err := cl.CreateSchema(context.Background(), def)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	ui.Success("created schema %q (id %d, %d fields)", schema.Name, schema.ID, schema.FieldCount())
	return nil
}

func runSchemasList(cmd *cobra.Command, args []string) error {
	_, _, cl, err := setup()
	if err != nil {
		return err
	}
	ui.Init(noColor, verbose)

	schemas, err := cl.ListSchemas(context.Background())
	if err != nil {
		return fmt.Errorf("list schemas: %w", err)
	}

	if len(schemas) == 0 {
		ui.Info("no schemas")
		return nil
	}

	rows := make([][]string, 0, len(schemas))
	for _, s := range schemas {
		rows = append(rows, []string{
			strconv.Itoa(s.ID),
			s.Name,
			s.Description,
			strconv.Itoa(s.FieldCount()),
		})
	}
	ui.Table([]string{"ID", "Name", "Description", "Fields"}, rows)
	return nil
}

func runSchemasDelete(cmd *cobra.Command, args []string) error {
	_, _, cl, err := setup()
	if err != nil {
		return err
	}
	ui.Init(noColor, verbose)

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid schema id: %s", args[0])
	}

	if err := cl.DeleteSchema(context.Background(), id); err != nil {
		return fmt.Errorf("delete schema: %w", err)
	}
	ui.Success("deleted schema %d", id)
	return nil
}

// parseFieldFlags converts repeated name:type declarations into field
// definitions, preserving order.
func parseFieldFlags(flags []string) ([]domain.FieldDefinition, error) {
	fields := make([]domain.FieldDefinition, 0, len(flags))
	for _, f := range flags {
		name, typ, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("invalid field declaration %q, expected name:type", f)
		}
		fields = append(fields, domain.FieldDefinition{
			Name: strings.TrimSpace(name),
			Type: domain.FieldType(strings.TrimSpace(typ)),
		})
	}
	return fields, nil
}
