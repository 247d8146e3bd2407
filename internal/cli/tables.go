package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/insights"
	"github.com/spektr-org/skillscope/schema"
)

// ============================================================================
// PANEL TABLES — Tabular projections of the insights panels
// ============================================================================

const currency = "$"

func textCol(key string) engine.Column {
	return engine.Column{Key: key, Label: columnLabel(key), Type: "text", Align: "left"}
}

func numberCol(key string) engine.Column {
	return engine.Column{Key: key, Label: columnLabel(key), Type: "number", Align: "right"}
}

func currencyCol(key string) engine.Column {
	return engine.Column{Key: key, Label: columnLabel(key), Type: "currency", Align: "right"}
}

func salaryTables(s *insights.SalarySummary) []*engine.TableData {
	stats := &engine.TableData{
		Title:   fmt.Sprintf("%s salaries in %s", s.Skill, s.RegionName),
		Columns: []engine.Column{textCol("metric"), currencyCol("value")},
		Rows: [][]string{
			{columnLabel(schema.ColMinSalary), engine.FormatCurrency(s.Min, currency)},
			{columnLabel(schema.ColMaxSalary), engine.FormatCurrency(s.Max, currency)},
			{columnLabel(schema.ColSalaryMidpoint), engine.FormatCurrency(s.Mean, currency)},
			{"Postings", engine.FormatInt(s.Postings)},
			{"Postings with salary", engine.FormatInt(s.SalaryRows)},
		},
	}

	groups := make([]engine.Group, len(s.TopCompanies))
	for i, c := range s.TopCompanies {
		groups[i] = engine.Group{Key: c.Company, Count: c.Postings}
	}
	top := engine.BuildCountTable("Top companies", columnLabel(schema.ColCompany), groups)
	return []*engine.TableData{stats, top}
}

func regionTables(m *insights.RegionMap) []*engine.TableData {
	states := &engine.TableData{
		Title: fmt.Sprintf("%s postings by state", m.Skill),
		Columns: []engine.Column{
			textCol(schema.ColRegion),
			textCol(schema.ColRegionName),
			numberCol("postings"),
			textCol("bucket"),
		},
		Rows: make([][]string, 0, len(m.Regions)),
		Summary: &engine.Summary{
			Label:  fmt.Sprintf("Total (%d states)", len(m.Regions)),
			Values: map[string]string{"postings": engine.FormatInt(m.Total)},
		},
	}
	for _, r := range m.Regions {
		states.Rows = append(states.Rows, []string{r.Code, r.Name, engine.FormatInt(r.Postings), r.BinLabel})
	}

	buckets := &engine.TableData{
		Title:   "Map buckets",
		Columns: []engine.Column{textCol("bucket"), numberCol("states")},
		Rows:    make([][]string, 0, len(m.Bins)),
	}
	for _, b := range m.Bins {
		buckets.Rows = append(buckets.Rows, []string{b.Label, strconv.Itoa(b.Count)})
	}
	return []*engine.TableData{states, buckets}
}

func flowTables(f *insights.Flow) []*engine.TableData {
	perSkill := make(map[string]int, len(f.Skills))
	for _, l := range f.Links {
		perSkill[l.Skill] += l.Count
	}
	groups := make([]engine.Group, len(f.Skills))
	for i, skill := range f.Skills {
		groups[i] = engine.Group{Key: skill, Count: perSkill[skill]}
	}
	ranking := engine.BuildCountTable(fmt.Sprintf("Top skills in %s", f.RegionName), columnLabel(schema.ColSkill), groups)

	links := &engine.TableData{
		Title: "Skill to experience level",
		Columns: []engine.Column{
			textCol(schema.ColSkill),
			textCol(schema.ColExperienceLevel),
			numberCol("postings"),
		},
		Rows: make([][]string, 0, len(f.Links)),
	}
	for _, l := range f.Links {
		links.Rows = append(links.Rows, []string{l.Skill, l.Level, engine.FormatInt(l.Count)})
	}
	return []*engine.TableData{ranking, links}
}

// companyTables lays the stacked series out as one row per company and one
// column per experience level.
func companyTables(c *insights.CompanyBreakdown) []*engine.TableData {
	columns := []engine.Column{textCol(schema.ColCompany)}
	cell := make(map[string]map[string]float64, len(c.Series))
	totals := make(map[string]string, len(c.Series)+1)
	for i, s := range c.Series {
		key := fmt.Sprintf("level_%d", i)
		columns = append(columns, engine.Column{Key: key, Label: s.Name, Type: "number", Align: "right"})
		cell[s.Name] = make(map[string]float64, len(s.Data))
		sum := 0.0
		for _, p := range s.Data {
			cell[s.Name][p.Label] = p.Value
			sum += p.Value
		}
		totals[key] = engine.FormatInt(int(sum))
	}
	columns = append(columns, numberCol("postings"))

	total := 0
	rows := make([][]string, 0, len(c.Companies))
	for _, co := range c.Companies {
		row := []string{co.Company}
		for _, s := range c.Series {
			row = append(row, engine.FormatInt(int(cell[s.Name][co.Company])))
		}
		row = append(row, engine.FormatInt(co.Postings))
		rows = append(rows, row)
		total += co.Postings
	}
	totals["postings"] = engine.FormatInt(total)

	return []*engine.TableData{{
		Title: fmt.Sprintf("Top companies for %s in %s (%s; available: %s)",
			c.Skill, c.RegionName, c.WorkType, strings.Join(c.WorkTypes, ", ")),
		Columns: columns,
		Rows:    rows,
		Summary: &engine.Summary{Label: "Total", Values: totals},
	}}
}

func salariesTables(d *insights.SalaryDistribution) []*engine.TableData {
	t := &engine.TableData{
		Title: fmt.Sprintf("%s salary distribution (applications median %s, p75 %s)",
			d.Skill, formatPlain(d.Quantiles.Median), formatPlain(d.Quantiles.P75)),
		Columns: []engine.Column{
			textCol(schema.ColCompanySizeLabel),
			textCol("activity"),
			numberCol("samples"),
			currencyCol("min"),
			currencyCol("q1"),
			currencyCol("median"),
			currencyCol("q3"),
			currencyCol("max"),
		},
		Rows: make([][]string, 0, len(d.Boxes)),
		Summary: &engine.Summary{
			Label: fmt.Sprintf("%s samples (%s unlabeled)", engine.FormatInt(d.Samples), engine.FormatInt(d.Unlabeled)),
		},
	}
	for _, b := range d.Boxes {
		t.Rows = append(t.Rows, []string{
			b.CompanySize,
			string(b.Activity),
			engine.FormatInt(b.Count),
			engine.FormatCompact(b.Min),
			engine.FormatCompact(b.Q1),
			engine.FormatCompact(b.Median),
			engine.FormatCompact(b.Q3),
			engine.FormatCompact(b.Max),
		})
	}
	return []*engine.TableData{t}
}

func dashboardTables(d *insights.Dashboard) []*engine.TableData {
	var tables []*engine.TableData
	if d.Salary != nil {
		tables = append(tables, salaryTables(d.Salary)...)
	}
	if d.Regions != nil {
		tables = append(tables, regionTables(d.Regions)...)
	}
	if d.Flow != nil {
		tables = append(tables, flowTables(d.Flow)...)
	}
	if d.Companies != nil {
		tables = append(tables, companyTables(d.Companies)...)
	}
	if d.Salaries != nil {
		tables = append(tables, salariesTables(d.Salaries)...)
	}
	if len(d.Errors) > 0 {
		errs := &engine.TableData{
			Title:   "Unavailable panels",
			Columns: []engine.Column{textCol("panel"), textCol("kind"), textCol("message")},
			Rows:    make([][]string, 0, len(d.Errors)),
		}
		for _, e := range d.Errors {
			errs.Rows = append(errs.Rows, []string{e.Panel, e.Kind, e.Message})
		}
		tables = append(tables, errs)
	}
	return tables
}

func skillTables(groups []engine.Group) []*engine.TableData {
	return []*engine.TableData{engine.BuildCountTable("Skills", columnLabel(schema.ColSkill), groups)}
}

func formatPlain(v float64) string {
	return strconv.FormatFloat(engine.RoundTo2(v), 'f', -1, 64)
}
