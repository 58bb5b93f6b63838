package builder

import (
	"errors"

	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/engine/taskgraph"
	"go.trai.ch/zerr"
)

var errMissingResult = zerr.New("dependency result missing")

// taskError marks a failure raised by a task's own Execute.
type taskError struct {
	err error
}

func (e *taskError) Error() string { return e.err.Error() }

func (e *taskError) Unwrap() error { return e.err }

func asAggregate(err error) (*taskgraph.AggregateError, bool) {
	var agg *taskgraph.AggregateError
	ok := errors.As(err, &agg)
	return agg, ok
}

// primaryError picks the one error a failed build reports.
// Clashes win over task failures, which win over everything else.
// Ties go to the task that comes first in dependency order.
func primaryError(err error) error {
	agg, ok := asAggregate(err)
	if !ok {
		return err
	}
	if len(agg.Errors) == 0 {
		if agg.Cause != nil {
			return agg.Cause
		}
		return err
	}

	best := agg.Errors[0].Err
	bestRank := rank(best)
	for _, ne := range agg.Errors[1:] {
		if r := rank(ne.Err); r < bestRank {
			best, bestRank = ne.Err, r
		}
	}

	var te *taskError
	if errors.As(best, &te) {
		return te.err
	}
	return best
}

func rank(err error) int {
	var clash *domain.ClashError
	if errors.As(err, &clash) {
		return 0
	}
	var te *taskError
	if errors.As(err, &te) {
		return 1
	}
	return 2
}
