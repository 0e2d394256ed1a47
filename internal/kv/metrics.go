package kv

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedStore counts and times every operation of an inner Store.
type InstrumentedStore struct {
	inner    Store
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Instrumented wraps inner and registers its collectors with reg. A nil reg
// keeps the collectors unregistered.
func Instrumented(inner Store, reg prometheus.Registerer) *InstrumentedStore {
	s := &InstrumentedStore{
		inner: inner,
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ratemymovie_kv_operations_total",
			Help: "Key-value store operations by operation and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ratemymovie_kv_operation_duration_seconds",
			Help:    "Key-value store operation latency.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(s.ops, s.duration)
	}
	return s
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.ops.WithLabelValues(op, result).Inc()
	s.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) (v []byte, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	return s.inner.Get(ctx, key)
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) (err error) {
	defer func(start time.Time) { s.observe("set", start, err) }(time.Now())
	return s.inner.Set(ctx, key, value)
}

func (s *InstrumentedStore) SetMany(ctx context.Context, values map[string][]byte) (err error) {
	defer func(start time.Time) { s.observe("set_many", start, err) }(time.Now())
	return SetMany(ctx, s.inner, values)
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())
	return s.inner.Delete(ctx, key)
}

func (s *InstrumentedStore) List(ctx context.Context) (m map[string][]byte, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())
	return s.inner.List(ctx)
}

func (s *InstrumentedStore) Clear(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("clear", start, err) }(time.Now())
	return s.inner.Clear(ctx)
}
