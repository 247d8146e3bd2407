package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spektr-org/skillscope/schema"
)

// ============================================================================
// CSV LOADER — Reads the posting table once into an immutable Table
// ============================================================================
// Headers are normalized and checked against the schema; extra columns are
// ignored. Malformed rows are skipped and counted rather than failing the
// load. Lookups (state name, company size label) are applied per row.
// ============================================================================

// SalaryPolicy decides what happens to a row whose min_salary > max_salary.
type SalaryPolicy string

const (
	SalaryDrop SalaryPolicy = "drop" // remove the row
	SalarySwap SalaryPolicy = "swap" // exchange the bounds
	SalaryKeep SalaryPolicy = "keep" // keep as-is
)

// ParseSalaryPolicy accepts "drop", "swap" or "keep"; empty means drop.
func ParseSalaryPolicy(s string) (SalaryPolicy, error) {
	switch p := SalaryPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return SalaryDrop, nil
	case SalaryDrop, SalarySwap, SalaryKeep:
		return p, nil
	default:
		return "", fmt.Errorf("unknown salary policy %q (want drop, swap or keep)", s)
	}
}

// LoadOptions configures Load. The zero value drops inverted salaries and
// logs nothing.
type LoadOptions struct {
	SalaryPolicy SalaryPolicy
	Logger       *zap.Logger
}

// LoadReport summarises what the loader did with the input.
type LoadReport struct {
	Rows             int            `json:"rows" yaml:"rows"`
	Skipped          int            `json:"skipped" yaml:"skipped"`
	Dropped          int            `json:"dropped" yaml:"dropped"`
	InvertedSalaries int            `json:"inverted_salaries" yaml:"inverted_salaries"`
	UnlabeledSizes   int            `json:"unlabeled_sizes" yaml:"unlabeled_sizes"`
	UnknownRegions   map[string]int `json:"unknown_regions,omitempty" yaml:"unknown_regions,omitempty"`
}

// UnknownRegionCodes returns the distinct unmapped region codes, sorted.
func (r LoadReport) UnknownRegionCodes() []string {
	codes := make([]string, 0, len(r.UnknownRegions))
	for code := range r.UnknownRegions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Load reads a posting CSV. A missing required column or an unreadable
// header fails the load; bad rows do not.
func Load(r io.Reader, opts LoadOptions) (*Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := opts.SalaryPolicy
	if policy == "" {
		policy = SalaryDrop
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx, err := schema.JobPostings().IndexHeaders(headers)
	if err != nil {
		return nil, err
	}

	l := &loader{
		idx:    idx,
		width:  maxIndex(idx) + 1,
		policy: policy,
		logger: logger,
		report: LoadReport{UnknownRegions: make(map[string]int)},
	}

	var postings []JobPosting
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				l.report.Skipped++
				logger.Warn("skipping malformed row", zap.Int("line", perr.Line), zap.Error(err))
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}

		p, ok := l.parse(row)
		if !ok {
			continue
		}
		postings = append(postings, p)
	}

	l.report.Rows = len(postings)
	logger.Info("loaded postings",
		zap.Int("rows", l.report.Rows),
		zap.Int("skipped", l.report.Skipped),
		zap.Int("dropped", l.report.Dropped),
		zap.Int("inverted_salaries", l.report.InvertedSalaries),
		zap.Strings("unknown_regions", l.report.UnknownRegionCodes()),
	)
	return NewTable(postings, l.report), nil
}

// ============================================================================
// ROW PARSING
// ============================================================================

type loader struct {
	idx    schema.HeaderIndex
	width  int
	policy SalaryPolicy
	logger *zap.Logger
	report LoadReport
}

func (l *loader) parse(row []string) (JobPosting, bool) {
	if len(row) < l.width {
		l.report.Skipped++
		l.logger.Warn("skipping short row", zap.Int("fields", len(row)), zap.Int("want", l.width))
		return JobPosting{}, false
	}

	get := func(col string) string { return strings.TrimSpace(row[l.idx[col]]) }

	p := JobPosting{
		JobID:           get(schema.ColJobID),
		Skill:           get(schema.ColSkill),
		Region:          strings.ToUpper(get(schema.ColRegion)),
		Company:         get(schema.ColCompany),
		ExperienceLevel: get(schema.ColExperienceLevel),
		WorkType:        get(schema.ColWorkType),
		MinSalary:       parseNumber(get(schema.ColMinSalary)),
		MaxSalary:       parseNumber(get(schema.ColMaxSalary)),
		Views:           parseNumber(get(schema.ColViews)),
		Applies:         parseNumber(get(schema.ColApplies)),
	}

	l.resolveRegion(&p)
	l.resolveSize(&p, parseNumber(get(schema.ColCompanySize)))

	if p.MinSalary != nil && p.MaxSalary != nil && *p.MinSalary > *p.MaxSalary {
		l.report.InvertedSalaries++
		switch l.policy {
		case SalaryDrop:
			l.report.Dropped++
			l.logger.Warn("dropping row with min_salary > max_salary",
				zap.String("job_id", p.JobID),
				zap.Float64("min_salary", *p.MinSalary),
				zap.Float64("max_salary", *p.MaxSalary))
			return JobPosting{}, false
		case SalarySwap:
			p.MinSalary, p.MaxSalary = p.MaxSalary, p.MinSalary
		}
	}
	return p, true
}

// resolveRegion sets the state name; unmapped codes are kept, counted and
// logged once per distinct code.
func (l *loader) resolveRegion(p *JobPosting) {
	name, err := schema.RegionName(p.Region)
	if err == nil {
		p.RegionName = name
		return
	}
	if l.report.UnknownRegions[p.Region] == 0 {
		l.logger.Warn("unknown region code", zap.String("code", p.Region), zap.Error(err))
	}
	l.report.UnknownRegions[p.Region]++
}

func (l *loader) resolveSize(p *JobPosting, size *float64) {
	if size != nil && *size == math.Trunc(*size) {
		n := int(*size)
		p.CompanySize = &n
	}
	if size != nil {
		if label, ok := schema.CompanySizeLabel(*size); ok {
			p.CompanySizeLabel = label
			return
		}
	}
	l.report.UnlabeledSizes++
}

// parseNumber returns nil for empty, non-numeric or non-finite cells.
func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func maxIndex(idx schema.HeaderIndex) int {
	m := 0
	for _, col := range schema.JobPostings().RequiredColumns() {
		if i := idx[col]; i > m {
			m = i
		}
	}
	return m
}
