package promise

import (
	"errors"

	async "github.com/asmsh/promise"
)

// All fulfills with the values of ps in input order, or rejects with the
// first rejection.
func All(ps ...*Promise) *Promise {
	return async.Follow[any, []async.IdxRes[any]](async.All(ps...),
		func(res async.Result[[]async.IdxRes[any]]) async.Result[any] {
			if res.State() != async.Success {
				return async.ErrRes[any](firstCause(res.Err()))
			}
			rs := res.Val()
			out := make([]any, len(rs))
			for _, r := range rs {
				if r.Result != nil {
					out[r.Idx] = r.Val()
				}
			}
			return async.ValRes[any](out)
		})
}

// firstCause unwraps the per-index error containers async.All reports.
func firstCause(err error) error {
	var multi async.MultiError
	if errors.As(err, &multi) && len(multi.Errs) > 0 {
		err = multi.Errs[0]
	}
	var idx async.IdxError
	if errors.As(err, &idx) && idx.Err != nil {
		return idx.Err
	}
	return err
}
