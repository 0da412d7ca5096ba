package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexbrand/apidocs/internal/apidoc"
	"github.com/alexbrand/apidocs/internal/output"
)

var (
	listGroups []string
	listVerbs  []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documented endpoints",
	Long: `List the endpoints documented by the feature files, in the order they
appear in the generated document.

Examples:
  apidocs list                          # all endpoints
  apidocs list --group=user_management  # one group (key or name)
  apidocs list --verb=get,post          # filter by verb
  apidocs list -f json                  # JSON output for scripts
  apidocs list -f name-only             # "GET /users" lines`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	addFeaturesFlag(listCmd)
	listCmd.Flags().StringSliceVarP(&listGroups, "group", "g", nil, "Filter by group key or name (can be specified multiple times or comma-separated)")
	listCmd.Flags().StringSliceVar(&listVerbs, "verb", nil, "Filter by HTTP verb (can be specified multiple times or comma-separated)")
}

func runList(cmd *cobra.Command) error {
	for _, v := range listVerbs {
		if !isVerb(v) {
			return NewExitCodeError(ExitError, "invalid verb "+v+" (valid: "+strings.Join(apidoc.Verbs, ", ")+")")
		}
	}

	res, err := loadDocs(cmd)
	if err != nil {
		return err
	}

	if err := checkGroups(res.Report.Groups(), listGroups); err != nil {
		return err
	}

	report := filterReport(res.Report, listGroups, listVerbs)
	return output.New(GetFormat()).FormatReport(cmd.OutOrStdout(), report)
}

func isVerb(v string) bool {
	for _, verb := range apidoc.Verbs {
		if strings.EqualFold(v, verb) {
			return true
		}
	}
	return false
}

// filterReport keeps the endpoints matching any of groups and any of verbs.
// Empty filters match everything; sections left empty are dropped.
func filterReport(report *apidoc.Report, groups, verbs []string) *apidoc.Report {
	if len(groups) == 0 && len(verbs) == 0 {
		return report
	}

	filtered := &apidoc.Report{}
	for _, s := range report.Sections {
		if len(groups) > 0 && !matchesGroup(s.Group, groups) {
			continue
		}
		section := apidoc.GroupSection{Group: s.Group}
		for _, e := range s.Endpoints {
			if len(verbs) == 0 || matchesVerb(e.Verb, verbs) {
				section.Endpoints = append(section.Endpoints, e)
			}
		}
		if len(section.Endpoints) > 0 {
			filtered.Sections = append(filtered.Sections, section)
		}
	}
	return filtered
}

// checkGroups reports group filters that name no documented group.
func checkGroups(known []*apidoc.Group, groups []string) error {
	for _, want := range groups {
		found := false
		for _, g := range known {
			if matchesGroup(g, []string{want}) {
				found = true
				break
			}
		}
		if !found {
			keys := make([]string, 0, len(known))
			for _, g := range known {
				keys = append(keys, g.Key)
			}
			return NotFoundError("group " + want + " not found (available: " + strings.Join(keys, ", ") + ")")
		}
	}
	return nil
}

func matchesGroup(g *apidoc.Group, groups []string) bool {
	for _, want := range groups {
		want = strings.TrimPrefix(want, "@")
		if strings.EqualFold(want, g.Key) || strings.EqualFold(want, g.Name) {
			return true
		}
	}
	return false
}

func matchesVerb(verb string, verbs []string) bool {
	for _, v := range verbs {
		if strings.EqualFold(v, verb) {
			return true
		}
	}
	return false
}
