package types

// Result is the single reply of a command invocation: exactly one of Event
// and Err is set.
type Result struct {
	Event FactoryEvent
	Err   *FactoryError
}

// Ok wraps a success event
func Ok(ev FactoryEvent) Result {
	return Result{Event: ev}
}

// Fail wraps a failure
func Fail(err *FactoryError) Result {
	return Result{Err: err}
}

// ResultOf builds the reply of an operation returning (event, error)
func ResultOf(ev FactoryEvent, err error) Result {
	if err != nil {
		return Fail(AsFactoryError(err))
	}
	return Ok(ev)
}

// IsOk reports whether the result carries an event
func (r Result) IsOk() bool {
	return r.Err == nil
}

// Outcome returns "ok" or the error kind name, for logs and metrics
func (r Result) Outcome() string {
	if r.Err == nil {
		return "ok"
	}
	return r.Err.Kind.String()
}
