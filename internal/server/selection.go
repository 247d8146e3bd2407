package server

import (
	"net/http"
	"strconv"

	"github.com/spektr-org/skillscope/insights"
)

// selection reads skill, state, work_type and include_other from the query
// string. Absent parameters fall back to the default selection.
func (s *Server) selection(r *http.Request) (insights.Selection, error) {
	q := r.URL.Query()
	sel := insights.DefaultSelection(s.table, s.defaultState)

	if v := q.Get("skill"); v != "" {
		sel = sel.WithSkill(v)
	}
	if v := q.Get("state"); v != "" {
		sel = sel.WithRegion(v)
	}
	sel = sel.WithWorkType(q.Get("work_type"))
	if v := q.Get("include_other"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return sel, &ErrBadQuery{Param: "include_other", Message: "must be a boolean"}
		}
		sel = sel.WithIncludeOther(b)
	}
	return sel, sel.Validate()
}
