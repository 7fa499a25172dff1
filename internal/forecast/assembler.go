package forecast

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mr1hm/water-insights/internal/models"
)

// Predictor returns the three model predictions for one country-year.
type Predictor interface {
	Predict(ctx context.Context, country string, year int) (models.Predictions, error)
}

type Assembler struct {
	predictor   Predictor
	concurrency int
	maxHorizon  int
}

// NewAssembler returns an Assembler issuing at most concurrency predictor
// calls at once. concurrency <= 0 means unbounded.
func NewAssembler(p Predictor, concurrency int) *Assembler {
	return &Assembler{
		predictor:   p,
		concurrency: concurrency,
	}
}

// WithMaxHorizon caps the number of years predicted past the baseline.
// Requests beyond it fail with HorizonTooLongError before any predictor call.
// n <= 0 removes the cap.
func (a *Assembler) WithMaxHorizon(n int) *Assembler {
	a.maxHorizon = n
	return a
}

// Assemble stitches history, the baseline and one prediction per year up to
// targetYear into a single series. history must be in ascending year order.
//
// Every year after the baseline is requested concurrently and all requests are
// awaited; if any fails the whole assembly fails with PredictorUnavailableError.
// A targetYear at or before the baseline year yields a series whose future arm
// holds only the baseline point.
func (a *Assembler) Assemble(ctx context.Context, country string, targetYear int, history []models.Observation) (*models.ForecastSeries, error) {
	if len(history) == 0 {
		return nil, &NoHistoryError{Country: country}
	}

	last := history[len(history)-1]
	baselineYear, baselineValue := last.Year, last.TotalConsumption

	historical := make([]models.SeriesPoint, len(history))
	for i, o := range history {
		historical[i] = models.HistoricalPoint(o.Year, o.TotalConsumption)
	}

	horizon := max(targetYear-baselineYear, 0)
	// targetYear far below the baseline can wrap the subtraction negative-to-positive.
	if targetYear < baselineYear {
		horizon = 0
	}
	if a.maxHorizon > 0 && horizon > a.maxHorizon {
		return nil, &HorizonTooLongError{Country: country, BaselineYear: baselineYear, TargetYear: targetYear, Max: a.maxHorizon}
	}
	slog.Debug("assembling forecast", "country", country, "baseline_year", baselineYear, "target_year", targetYear, "horizon", horizon)

	predicted, err := a.fanOut(ctx, country, baselineYear, horizon)
	if err != nil {
		return nil, err
	}

	// The baseline point is synthesized so the forecast arm meets the
	// historical line at exactly the observed value.
	baseline := models.Predictions{Lasso: baselineValue, KNN: baselineValue, Ridge: baselineValue}
	future := make([]models.SeriesPoint, 0, horizon+1)
	future = append(future, models.FuturePoint(baselineYear, baseline))
	for i, p := range predicted {
		future = append(future, models.FuturePoint(baselineYear+i+1, p))
	}

	target := baseline
	if horizon > 0 {
		target = predicted[horizon-1]
	}

	series := &models.ForecastSeries{
		Country:       country,
		TargetYear:    targetYear,
		BaselineYear:  baselineYear,
		BaselineValue: baselineValue,
		Historical:    historical,
		Future:        future,
		Predicted:     target,
		Growth:        Growth(baselineValue, target),
	}

	slog.Info("forecast assembled", "country", country, "baseline_year", baselineYear, "target_year", targetYear, "points", len(future))
	return series, nil
}

// fanOut requests baselineYear+1 .. baselineYear+horizon. Results are
// placed by year offset, independent of completion order.
func (a *Assembler) fanOut(ctx context.Context, country string, baselineYear, horizon int) ([]models.Predictions, error) {
	results := make([]models.Predictions, horizon)
	if horizon == 0 {
		return results, nil
	}

	var g errgroup.Group
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}

	for i := range horizon {
		year := baselineYear + i + 1
		g.Go(func() error {
			p, err := a.predictor.Predict(ctx, country, year)
			if err != nil {
				slog.Warn("prediction failed", "country", country, "year", year, "error", err)
				return &PredictorUnavailableError{Country: country, Year: year, Err: err}
			}
			results[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
