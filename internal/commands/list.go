package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torudo-dev/torudo/internal/models"
	"github.com/torudo-dev/torudo/internal/parser"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List records",
	Long:    "List records in board order, optionally limited to one project",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

// listedRecord is the JSON shape of a record
type listedRecord struct {
	ID          string   `json:"id"`
	Line        int      `json:"line"`
	Completed   bool     `json:"completed"`
	Priority    string   `json:"priority,omitempty"`
	Created     string   `json:"created,omitempty"`
	Description string   `json:"description"`
	Projects    []string `json:"projects"`
	Contexts    []string `json:"contexts"`
}

func runList(cmd *cobra.Command, args []string) error {
	project, _ := cmd.Flags().GetString("project")
	asJSON, _ := cmd.Flags().GetBool("json")

	records, err := newStore().Load()
	if err != nil {
		return err
	}
	records = filterByProject(records, strings.TrimPrefix(project, parser.ProjectSigil))

	out := cmd.OutOrStdout()
	if asJSON {
		listed := make([]listedRecord, 0, len(records))
		for _, r := range records {
			listed = append(listed, toListed(r))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listed)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No records found. Use 'torudo add \"description\" -p project' to create one.")
		return nil
	}

	// Print table header
	fmt.Fprintf(out, "%-8s %-3s %-44s %s\n", "ID", "PRI", "DESCRIPTION", "PROJECTS")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, r := range records {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}

		description := r.Description
		if r.Completed {
			description = "x " + description
		}
		if len(description) > 42 {
			description = description[:39] + "..."
		}

		fmt.Fprintf(out, "%-8s %-3s %-44s %s\n", id, r.PriorityLabel(), description, strings.Join(r.Projects, ","))
	}
	return nil
}

func filterByProject(records []models.Record, project string) []models.Record {
	if project == "" {
		return records
	}
	var out []models.Record
	for _, r := range records {
		if project == models.NoProject && len(r.Projects) == 0 {
			out = append(out, r)
			continue
		}
		for _, p := range r.Projects {
			if p == project {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func toListed(r models.Record) listedRecord {
	l := listedRecord{
		ID:          r.ID,
		Line:        r.LineNumber,
		Completed:   r.Completed,
		Priority:    r.PriorityLabel(),
		Description: r.Description,
		Projects:    r.Projects,
		Contexts:    r.Contexts,
	}
	if r.CreationDate != nil {
		l.Created = parser.FormatDate(*r.CreationDate)
	}
	return l
}

func init() {
	listCmd.Flags().StringP("project", "p", "", "Only list records tagged with this project")
	listCmd.Flags().Bool("json", false, "JSON output")
}
