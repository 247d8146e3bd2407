package cli

import (
	"github.com/spf13/cobra"

	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/insights"
	"github.com/spektr-org/skillscope/schema"
)

// panelFunc computes a panel and its tabular projection.
type panelFunc func(t *dataset.Table, sel insights.Selection, opts ...insights.Option) (any, []*engine.TableData, error)

// panelOf pairs an insights panel with its table projection.
func panelOf[T any](
	compute func(*dataset.Table, insights.Selection, ...insights.Option) (T, error),
	tables func(T) []*engine.TableData,
) panelFunc {
	return func(t *dataset.Table, sel insights.Selection, opts ...insights.Option) (any, []*engine.TableData, error) {
		out, err := compute(t, sel, opts...)
		if err != nil {
			return nil, nil, err
		}
		return out, tables(out), nil
	}
}

// panels maps command names to panels. They are shared by the one-shot
// commands and the explore session.
var panels = map[string]panelFunc{
	"summary":   panelOf(insights.Salary, salaryTables),
	"regions":   panelOf(insights.Regions, regionTables),
	"flow":      panelOf(insights.SkillFlow, flowTables),
	"companies": panelOf(insights.Companies, companyTables),
	"salaries":  panelOf(insights.Salaries, salariesTables),
	"dashboard": panelOf(insights.Build, dashboardTables),
}

// selectionFlags are the per-command selection overrides.
type selectionFlags struct {
	skill        string
	state        string
	workType     string
	includeOther bool
}

func addSelectionFlags(cmd *cobra.Command, f *selectionFlags) {
	cmd.Flags().StringVar(&f.skill, "skill", "", "Skill to inspect (default: first skill in the data)")
	cmd.Flags().StringVar(&f.state, "state", "", "State code or name (default: configured default_state)")
	cmd.Flags().StringVar(&f.workType, "work-type", "", "Work type for the companies panel (default: first available)")
	cmd.Flags().BoolVar(&f.includeOther, "include-other", false, "Rank the catch-all skill in the flow panel")
}

// selection starts from the default selection and applies the flags.
func (f *selectionFlags) selection(t *dataset.Table, defaultState string) insights.Selection {
	sel := insights.DefaultSelection(t, defaultState)
	if f.skill != "" {
		sel = sel.WithSkill(f.skill)
	}
	if f.state != "" {
		sel = sel.WithRegion(f.state)
	}
	return sel.WithWorkType(f.workType).WithIncludeOther(f.includeOther)
}

// newPanelCommand builds a one-shot command that renders one panel.
func newPanelCommand(use, short, long string) *cobra.Command {
	var flags selectionFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			t, err := s.Table()
			if err != nil {
				return err
			}
			out, tables, err := panels[use](t, flags.selection(t, s.cfg.DefaultState), s.Options()...)
			if err != nil {
				return err
			}
			return newRenderer(cmd.OutOrStdout(), s.cfg.Output).render(out, tables)
		},
	}
	addSelectionFlags(cmd, &flags)
	return cmd
}

func newSummaryCommand() *cobra.Command {
	return newPanelCommand("summary",
		"Salary statistics and top companies for a skill in a state",
		`Report the minimum, maximum and average salary of a skill in a state,
with the number of postings and the companies posting it most.`)
}

func newRegionsCommand() *cobra.Command {
	return newPanelCommand("regions",
		"Postings per state for a skill, bucketed for a map",
		`Count the postings of a skill in every known state and bucket the counts
into fixed-width bins for a choropleth map.`)
}

func newFlowCommand() *cobra.Command {
	return newPanelCommand("flow",
		"Top skills of a state and their experience levels",
		`Rank the skills of a state and split each into experience levels in
canonical order. The catch-all skill is left out unless --include-other.`)
}

func newCompaniesCommand() *cobra.Command {
	return newPanelCommand("companies",
		"Top companies for a skill in a state by experience level",
		`List the companies with the most postings for a skill in a state and
work type, split by experience level.`)
}

func newSalariesCommand() *cobra.Command {
	return newPanelCommand("salaries",
		"Salary distribution by company size and application activity",
		`Summarize the salaries of a skill as box statistics per company size and
application activity level.`)
}

func newDashboardCommand() *cobra.Command {
	return newPanelCommand("dashboard",
		"Every panel for one selection",
		`Compute every panel for one selection. Panels without data are listed
as unavailable instead of failing the command.`)
}

func newSkillsCommand() *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List skills by number of postings",
		Example: `  # Most posted skills first
  skillscope skills

  # Alphabetical, as CSV
  skillscope skills --sort label_asc -o csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := getSession(cmd)
			if err != nil {
				return err
			}
			t, err := s.Table()
			if err != nil {
				return err
			}
			groups := engine.CountBy(t.View(), schema.ColSkill)
			engine.SortGroups(groups, sortBy)
			return newRenderer(cmd.OutOrStdout(), s.cfg.Output).render(groups, skillTables(groups))
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", engine.SortCountDesc, "Order (count_desc|count_asc|label_asc|label_desc)")
	return cmd
}
