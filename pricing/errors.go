package pricing

import "errors"

// ErrTooManyStoppingTimes is returned when an instrument's stopping-time
// count (ex-dividend dates, shout dates) exceeds the requested step
// count, a NotImplemented configuration per spec.md §7.
var ErrTooManyStoppingTimes = errors.New("pricing: stopping-time count exceeds rollback step count")

// ErrUnknownInstrumentKind is returned for an InstrumentKind value this
// engine doesn't build a step condition for.
var ErrUnknownInstrumentKind = errors.New("pricing: unknown instrument kind")
