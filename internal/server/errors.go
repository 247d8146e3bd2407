package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spektr-org/skillscope/engine"
	"github.com/spektr-org/skillscope/insights"
	"github.com/spektr-org/skillscope/schema"
)

// ErrBadQuery indicates a query parameter that could not be parsed.
type ErrBadQuery struct {
	Param   string
	Message string
}

func (e *ErrBadQuery) Error() string {
	return fmt.Sprintf("bad query parameter %s: %s", e.Param, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		badQuery  *ErrBadQuery
		selection *insights.SelectionError
		region    *schema.UnknownRegionError
		empty     *engine.EmptyInputError
		bins      *engine.InvalidBinConfigError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &badQuery), errors.As(err, &selection), errors.As(err, &region):
		return http.StatusBadRequest
	case errors.As(err, &empty), errors.As(err, &bins):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorKind labels err for the response body.
func errorKind(err error) string {
	var badQuery *ErrBadQuery
	if errors.As(err, &badQuery) {
		return "bad_query"
	}
	return insights.ErrorKind(err)
}
