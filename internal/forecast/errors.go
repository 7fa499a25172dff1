package forecast

import "fmt"

// NoHistoryError reports an assembly request for a country with no observations.
type NoHistoryError struct {
	Country string
}

func (e *NoHistoryError) Error() string {
	return fmt.Sprintf("no history for country %q", e.Country)
}

// PredictorUnavailableError reports a failed Predictor Service call. The whole
// assembly is abandoned when one is returned.
type PredictorUnavailableError struct {
	Country string
	Year    int
	Err     error
}

func (e *PredictorUnavailableError) Error() string {
	return fmt.Sprintf("predictor unavailable for %s/%d: %v", e.Country, e.Year, e.Err)
}

func (e *PredictorUnavailableError) Unwrap() error { return e.Err }

// HorizonTooLongError reports a target year further past the baseline than
// the assembler is allowed to predict.
type HorizonTooLongError struct {
	Country      string
	BaselineYear int
	TargetYear   int
	Max          int
}

func (e *HorizonTooLongError) Error() string {
	return fmt.Sprintf("target year %d for %s is more than %d years past baseline %d", e.TargetYear, e.Country, e.Max, e.BaselineYear)
}
