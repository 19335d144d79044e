package sim

import "errors"

// ErrNoData reports that a statistic was requested over an empty collection.
// Zero completed customers within the horizon is a reportable degenerate
// case, distinct from a zero mean.
var ErrNoData = errors.New("no records collected")

// WaitingTimes collects one departure-minus-arrival delta per completed
// customer. Only the mean is derived from it; ordering is not meaningful.
type WaitingTimes struct {
	records []SimTime
}

// Record appends one completed customer's waiting time.
func (w *WaitingTimes) Record(d SimTime) {
	w.records = append(w.records, d)
}

// Count returns the number of completed customers recorded.
func (w *WaitingTimes) Count() int {
	return len(w.records)
}

// Records returns the raw deltas. The returned slice is the internal storage;
// callers must not modify it.
func (w *WaitingTimes) Records() []SimTime {
	return w.records
}

// Mean returns the average waiting time. Returns ErrNoData when nothing has
// been recorded.
func (w *WaitingTimes) Mean() (float64, error) {
	if len(w.records) == 0 {
		return 0, ErrNoData
	}
	var sum SimTime
	for _, d := range w.records {
		sum += d
	}
	return float64(sum) / float64(len(w.records)), nil
}

// integrate computes the time-weighted sum of a per-sample value: each
// sample's value is weighted by the span since the previous sample. Spans
// follow the sampling convention of MonitoringSample (see monitor.go).
func integrate(samples []MonitoringSample, value func(MonitoringSample) int) float64 {
	var sum float64
	var last SimTime
	for _, s := range samples {
		sum += float64(value(s)) * float64(s.Time-last)
		last = s.Time
	}
	return sum
}

// Utilization time-integrates ActiveUsers over the run and normalizes by
// capacity and horizon. The result is in [0, 1] for any sample sequence
// produced within the horizon.
func Utilization(samples []MonitoringSample, capacity int, horizon SimTime) float64 {
	if capacity < 1 || horizon <= 0 {
		return 0
	}
	return integrate(samples, func(s MonitoringSample) int { return s.ActiveUsers }) /
		(float64(capacity) * float64(horizon))
}

// MeanQueueLength time-integrates QueueLength over the run and normalizes by
// horizon, yielding the time-averaged number of requests demanding the
// resource.
func MeanQueueLength(samples []MonitoringSample, horizon SimTime) float64 {
	if horizon <= 0 {
		return 0
	}
	return integrate(samples, func(s MonitoringSample) int { return s.QueueLength }) /
		float64(horizon)
}
