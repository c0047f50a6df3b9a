package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// MetricsState tracks design rebuild timings: a rolling average over the
// last AVG_COUNT rebuilds plus totals of produced tree nodes and rows.
type MetricsState struct {
	BuildAVGCounter uint8
	MStimes         [AVG_COUNT]float64
	MSavg           float64
	Builds          int64
	Failures        int64
	Nodes           int64
	Rows            int64
	samples         uint8
}

var onceMetrics sync.Once
var metricsState *MetricsState = nil

func MetricsInitialize() error {
	onceMetrics.Do(func() {
		metricsState = &MetricsState{}
	})
	return nil
}

func MetricsReset() {
	MetricsInitialize()
	*metricsState = MetricsState{}
}

// MetricsBuild records one finished design rebuild.
func MetricsBuild(elapsed time.Duration, nodes, rows int) {
	MetricsInitialize()
	ms := float64(elapsed) / float64(time.Millisecond)
	metricsState.MStimes[metricsState.BuildAVGCounter] = ms
	metricsState.BuildAVGCounter = (metricsState.BuildAVGCounter + 1) % AVG_COUNT
	if metricsState.samples < AVG_COUNT {
		metricsState.samples++
	}

	var sum float64
	for i := uint8(0); i < metricsState.samples; i++ {
		sum += metricsState.MStimes[i]
	}
	metricsState.MSavg = sum / float64(metricsState.samples)

	metricsState.Builds++
	metricsState.Nodes += int64(nodes)
	metricsState.Rows += int64(rows)
}

func MetricsBuildFailed() {
	MetricsInitialize()
	metricsState.Failures++
}

// MetricsBuildTime returns the rolling average rebuild time in milliseconds.
func MetricsBuildTime() float64 {
	MetricsInitialize()
	return metricsState.MSavg
}

func MetricsSnapshot() MetricsState {
	MetricsInitialize()
	return *metricsState
}
