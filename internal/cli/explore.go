package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/skillscope/dataset"
	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/insights"
	"github.com/spektr-org/skillscope/schema"
)

func newExploreCommand() *cobra.Command {
	var flags selectionFlags
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Interactive session over one selection",
		Long: `Start an interactive session that keeps a current selection of skill,
state and work type. Change the selection with skill, state, worktype and
other, then show any panel for it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplore(cmd, &flags)
		},
	}
	addSelectionFlags(cmd, &flags)
	return cmd
}

func runExplore(cmd *cobra.Command, flags *selectionFlags) error {
	s, err := getSession(cmd)
	if err != nil {
		return err
	}
	t, err := s.Table()
	if err != nil {
		return err
	}

	e := newExplorer(s, t, flags.selection(t, s.cfg.DefaultState), cmd.OutOrStdout(), cmd.ErrOrStderr())

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          e.prompt(),
		HistoryFile:     s.cfg.HistoryFile,
		AutoComplete:    e.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(e.out, "skillscope explore (%s postings, %d skills)\n",
		engine.FormatInt(t.Len()), len(t.Skills()))
	_, _ = fmt.Fprintln(e.out, "Type help for commands, quit to exit")
	_, _ = fmt.Fprintln(e.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if e.exec(line) {
			break
		}
		rl.SetPrompt(e.prompt())
	}
	return nil
}

// explorer holds the session's current selection. The table is shared and
// read-only; every change produces a new Selection value.
type explorer struct {
	sess   *session
	table  *dataset.Table
	sel    insights.Selection
	format string
	out    io.Writer
	errOut io.Writer
}

func newExplorer(s *session, t *dataset.Table, sel insights.Selection, out, errOut io.Writer) *explorer {
	return &explorer{
		sess:   s,
		table:  t,
		sel:    sel,
		format: s.cfg.Output,
		out:    out,
		errOut: errOut,
	}
}

func (e *explorer) prompt() string {
	return fmt.Sprintf("skillscope [%s/%s]> ", e.sel.Skill, e.sel.Region)
}

// exec runs one input line and reports whether the session should end.
func (e *explorer) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	command, arg, _ := strings.Cut(line, " ")
	command = strings.ToLower(command)
	arg = strings.TrimSpace(arg)

	switch command {
	case "quit", "exit":
		return true

	case "help":
		printExploreHelp(e.out)

	case "show":
		e.show()

	case "skill":
		if arg == "" {
			e.fail("usage: skill <name>")
			return false
		}
		if !e.table.HasSkill(arg) {
			e.fail(fmt.Sprintf("unknown skill %q", arg))
			return false
		}
		e.sel = e.sel.WithSkill(arg)
		e.show()

	case "state":
		if arg == "" {
			e.fail("usage: state <code or name>")
			return false
		}
		next := e.sel.WithRegion(arg)
		if err := next.Validate(); err != nil {
			e.fail(err.Error())
			return false
		}
		e.sel = next
		e.show()

	case "worktype":
		e.sel = e.sel.WithWorkType(arg)
		e.show()

	case "other":
		switch strings.ToLower(arg) {
		case "":
			e.sel = e.sel.WithIncludeOther(!e.sel.IncludeOther)
		default:
			b, err := strconv.ParseBool(normalizeToggle(arg))
			if err != nil {
				e.fail("usage: other [on|off]")
				return false
			}
			e.sel = e.sel.WithIncludeOther(b)
		}
		e.show()

	case "output":
		switch arg {
		case formatTable, formatJSON, formatYAML, formatCSV:
			e.format = arg
		default:
			e.fail("usage: output table|json|yaml|csv")
		}

	case "skills":
		groups := engine.TopN(e.table.View(), schema.ColSkill, 0)
		e.render(groups, skillTables(groups))

	default:
		compute, ok := panels[command]
		if !ok {
			e.fail(fmt.Sprintf("unknown command: %s (type help for commands)", command))
			return false
		}
		out, tables, err := compute(e.table, e.sel, e.sess.Options()...)
		if err != nil {
			e.sess.logger.Debug("panel failed", zap.String("panel", command), zap.Error(err))
			e.fail(err.Error())
			return false
		}
		e.render(out, tables)
	}
	return false
}

func (e *explorer) show() {
	workType := e.sel.WorkType
	if workType == "" {
		workType = "(first available)"
	}
	_, _ = fmt.Fprintf(e.out, "skill=%s state=%s (%s) work_type=%s include_other=%t\n",
		e.sel.Skill, e.sel.Region, e.sel.RegionName(), workType, e.sel.IncludeOther)
}

func (e *explorer) render(v any, tables []*engine.TableData) {
	if err := newRenderer(e.out, e.format).render(v, tables); err != nil {
		e.fail(err.Error())
	}
}

func (e *explorer) fail(msg string) {
	_, _ = fmt.Fprintf(e.errOut, "Error: %s\n", msg)
}

// workTypes lists the work types available for the current skill and state.
func (e *explorer) workTypes() []string {
	sub := engine.Filter(e.table.View(), engine.Criteria{}.
		Eq(schema.ColSkill, e.sel.Skill).
		Eq(schema.ColRegion, e.sel.Region))
	return engine.UniqueValues(sub, schema.ColWorkType)
}

// completer offers commands, skills, state codes and the work types of the
// current selection.
func (e *explorer) completer() *readline.PrefixCompleter {
	states := func(string) []string {
		codes := make([]string, 0, len(schema.Regions()))
		for _, r := range schema.Regions() {
			codes = append(codes, r.Code)
		}
		return codes
	}

	names := make([]string, 0, len(panels))
	for name := range panels {
		names = append(names, name)
	}
	sort.Strings(names)

	items := []readline.PrefixCompleterInterface{
		readline.PcItem("skill", readline.PcItemDynamic(func(string) []string { return e.table.Skills() })),
		readline.PcItem("state", readline.PcItemDynamic(states)),
		readline.PcItem("worktype", readline.PcItemDynamic(func(string) []string { return e.workTypes() })),
		readline.PcItem("other", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("output",
			readline.PcItem(formatTable),
			readline.PcItem(formatJSON),
			readline.PcItem(formatYAML),
			readline.PcItem(formatCSV),
		),
		readline.PcItem("skills"),
		readline.PcItem("show"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	}
	for _, name := range names {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

func normalizeToggle(s string) string {
	switch strings.ToLower(s) {
	case "on", "yes":
		return "true"
	case "off", "no":
		return "false"
	}
	return s
}

func printExploreHelp(w io.Writer) {
	help := `
Selection:
  skill <name>         Select a skill
  state <code|name>    Select a state (CA or California)
  worktype [type]      Select a work type (empty: first available)
  other [on|off]       Toggle ranking the catch-all skill in the flow
  show                 Print the current selection

Panels:
  summary              Salary statistics and top companies
  regions              Postings per state, bucketed
  flow                 Top skills by experience level
  companies            Top companies by experience level
  salaries             Salary distribution
  dashboard            Every panel
  skills               Skills by number of postings

Session:
  output <format>      table, json, yaml or csv
  help                 Show this help message
  quit / exit          Leave the session

Tips:
  - Use arrow keys to navigate history
  - Tab completion works for commands, skills, states and work types
`
	_, _ = fmt.Fprintln(w, help)
}
