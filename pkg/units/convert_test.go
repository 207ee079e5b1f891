package units

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want float64
	}{
		{"kibibytes to bytes", Request{Value: 1, Source: "kibibytes", Target: "bytesIEC"}, 1024},
		{"milliseconds to seconds", Request{Value: 1000, Source: "milliseconds", Target: "seconds"}, 1},
		{"hours to seconds", Request{Value: 1, Source: "hours", Target: "seconds"}, 3600},
		{"gigabits to megabits", Request{Value: 1, Source: "gigabitsPerSecSI", Target: "megabitsPerSecSI"}, 1000},
		{"bits to bytes", Request{Value: 16, Source: "bitsSI", Target: "bytesSI"}, 2},
		{"nanoseconds to days", Request{Value: 86400e9, Source: "nanoseconds", Target: "days"}, 1},
		{"pebibytes to kibibytes", Request{Value: 1, Source: "pebibytes", Target: "kibibytes"}, 1099511627776},
		{"petabits to bits", Request{Value: 1, Source: "petabitsPerSecSI", Target: "bitsPerSecSI"}, 1e15},
		{"percent unit to percent", Request{Value: 0.25, Source: "percentUnit", Target: "percent"}, 25},
		{"counts per minute to per second", Request{Value: 120, Source: "countsPerMin", Target: "countsPerSec"}, 2},
		{"timeticks to milliseconds", Request{Value: 5, Source: "timeticks", Target: "milliseconds"}, 50},
		{"negative values", Request{Value: -3, Source: "minutes", Target: "seconds"}, -180},
		{"zero value", Request{Value: 0, Source: "hours", Target: "seconds"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Convert(tt.req))
		})
	}
}

func TestConvert_DecimalExactness(t *testing.T) {
	// 0.1 + 0.2 style drift must not appear: 0.3 s is exactly 300 ms
	assert.Equal(t, 300.0, Convert(Request{Value: 0.3, Source: "seconds", Target: "milliseconds"}))
	assert.Equal(t, 0.3, Convert(Request{Value: 300, Source: "milliseconds", Target: "seconds"}))
	// nano to peta in one step
	assert.Equal(t, 1.0, Convert(Request{Value: 8e15, Source: "bitsSI", Target: "petabytes"}))
	assert.Equal(t, 0.001, Convert(Request{Value: 1, Source: "megabytes", Target: "gigabytes"}))
}

func TestConvert_BooleanShortCircuit(t *testing.T) {
	c, ok := Default().Category(string(Boolean))
	require.True(t, ok)

	values := []float64{0, 1, -1, 42.5, math.NaN(), math.Inf(1)}
	targets := []string{"", "seconds", "bytesIEC", "not-a-real-unit", "yesNo"}
	for _, u := range c.Units {
		for _, v := range values {
			for _, target := range targets {
				got := Convert(Request{Value: v, Source: u.ID, Target: target})
				assert.Equal(t, 1.0, got, "%s %v -> %q", u.ID, v, target)
			}
		}
	}
}

func TestConvert_BooleanTargetIsNotShortCircuited(t *testing.T) {
	assert.Equal(t, 0.0, Convert(Request{Value: 5, Source: "seconds", Target: "trueFalse"}))
}

func TestConvert_FailSoft(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"unknown source", Request{Value: 12, Source: "not-a-real-unit", Target: "seconds"}},
		{"unknown target", Request{Value: 12, Source: "seconds", Target: "not-a-real-unit"}},
		{"both unknown", Request{Value: 12, Source: "foo", Target: "bar"}},
		{"absent source", Request{Value: 12, Target: "seconds"}},
		{"absent target", Request{Value: 12, Source: "seconds"}},
		{"absent both", Request{Value: 12}},
		{"factorless source", Request{Value: 12, Source: "hertz", Target: "seconds"}},
		{"factorless target", Request{Value: 12, Source: "seconds", Target: "string"}},
		{"outside searched tables", Request{Value: 12, Source: "meter", Target: "kilometer"}},
		{"NaN value", Request{Value: math.NaN(), Source: "seconds", Target: "minutes"}},
		{"infinite value", Request{Value: math.Inf(-1), Source: "seconds", Target: "minutes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.0, Convert(tt.req))
		})
	}

	for _, v := range []float64{0, 1, -7.25, 1e12} {
		assert.Equal(t, 0.0, Convert(Request{Value: v, Source: "not-a-real-unit", Target: "seconds"}))
	}
}

func TestConvert_CrossCategoryIsNotRejected(t *testing.T) {
	// seconds and bytes share factor 1; the ratio is meaningless but defined
	assert.Equal(t, 7.0, Convert(Request{Value: 7, Source: "seconds", Target: "bytesIEC"}))
	assert.Equal(t, 60.0, Convert(Request{Value: 1, Source: "minutes", Target: "bytesSI"}))
}

// searchedUnits returns every unit Convert can resolve, with its base.
func searchedUnits(t *testing.T) map[string][]string {
	t.Helper()
	bases := map[CategoryName]string{
		Data:          "bytesIEC",
		Time:          "seconds",
		DataRate:      "bytesPerSecIEC",
		Miscellaneous: "none",
		Throughput:    "countsPerSec",
	}
	out := map[string][]string{}
	for _, name := range resolutionOrder {
		c, ok := Default().Category(string(name))
		require.True(t, ok)
		for _, u := range c.Units {
			if _, ok := u.Factor(); ok {
				out[bases[name]] = append(out[bases[name]], u.ID)
			}
		}
	}
	return out
}

func TestConvert_Identity(t *testing.T) {
	values := []float64{0, 1, -1, 0.1, 3.14159, 1e-9, 123456.789, 1e15}
	for _, ids := range searchedUnits(t) {
		for _, id := range ids {
			for _, x := range values {
				assert.Equal(t, x, Convert(Request{Value: x, Source: id, Target: id}), "%s(%v)", id, x)
			}
		}
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	values := []float64{1, -2.5, 0.1, 123456.789, 1e-9, 1e15}
	for base, ids := range searchedUnits(t) {
		for _, id := range ids {
			for _, x := range values {
				there := Convert(Request{Value: x, Source: id, Target: base})
				back := Convert(Request{Value: there, Source: base, Target: id})
				assert.InEpsilon(t, x, back, 1e-12, "%s -> %s -> %s (%v)", id, base, id, x)
			}
			assert.Equal(t, 0.0, Convert(Request{Value: Convert(Request{Source: id, Target: base}), Source: base, Target: id}))
		}
	}
}

func TestConvert_ResolutionOrderBeatsDeclarationOrder(t *testing.T) {
	r := NewRegistry([]Category{
		{Name: Time, Units: []Unit{scaled("tick", "tick", exact("2"))}},
		{Name: Data, Units: []Unit{scaled("tick", "tick", exact("8")), scaled("unit", "unit", exact("1"))}},
	})
	e := NewEngine(r)

	c, _ := r.FindCategory("tick")
	assert.Equal(t, Time, c.Name, "FindCategory follows declaration order")
	assert.Equal(t, 8.0, e.Convert(Request{Value: 1, Source: "tick", Target: "unit"}), "Convert searches Data before Time")
}

func TestConvert_TargetFallback(t *testing.T) {
	fixed := NewEngine(nil)
	legacy := NewEngine(nil, WithLegacyTargetFallback())

	require.False(t, fixed.LegacyTargetFallback())
	require.True(t, legacy.LegacyTargetFallback())

	tests := []struct {
		name       string
		req        Request
		wantFixed  float64
		wantLegacy float64
	}{
		{
			// legacy divides by the source's own throughput factor
			name:       "per minute to per second",
			req:        Request{Value: 60, Source: "countsPerMin", Target: "countsPerSec"},
			wantFixed:  1,
			wantLegacy: 60,
		},
		{
			name:       "per second to per minute",
			req:        Request{Value: 1, Source: "opsPerSec", Target: "opsPerMin"},
			wantFixed:  60,
			wantLegacy: 1,
		},
		{
			// source is not a throughput unit, so legacy finds no divisor
			name:       "time to throughput",
			req:        Request{Value: 3, Source: "seconds", Target: "countsPerSec"},
			wantFixed:  3,
			wantLegacy: 0,
		},
		{
			// targets found before the throughput step are unaffected
			name:       "data units",
			req:        Request{Value: 1, Source: "kibibytes", Target: "bytesIEC"},
			wantFixed:  1024,
			wantLegacy: 1024,
		},
		{
			// legacy resolves a divisor even for an unknown target
			name:       "unknown target",
			req:        Request{Value: 5, Source: "readsPerSec", Target: "not-a-real-unit"},
			wantFixed:  0,
			wantLegacy: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFixed, fixed.Convert(tt.req), "fixed")
			assert.Equal(t, tt.wantLegacy, legacy.Convert(tt.req), "legacy")
		})
	}
}

func TestConvert_Observer(t *testing.T) {
	var mu sync.Mutex
	got := map[Outcome]int{}
	e := NewEngine(nil, WithObserver(ObserverFunc(func(_ Request, o Outcome) {
		mu.Lock()
		got[o]++
		mu.Unlock()
	})))

	e.Convert(Request{Value: 1, Source: "hours", Target: "seconds"})
	e.Convert(Request{Value: 1, Source: "yesNo"})
	e.Convert(Request{Value: 1, Source: "nope", Target: "seconds"})
	e.Convert(Request{Value: 1, Source: "seconds", Target: "nope"})
	e.Convert(Request{Value: math.NaN(), Source: "seconds", Target: "minutes"})

	assert.Equal(t, map[Outcome]int{
		OutcomeConverted:        1,
		OutcomeBoolean:          1,
		OutcomeUnresolvedSource: 1,
		OutcomeUnresolvedTarget: 1,
		OutcomeNotANumber:       1,
	}, got)
}

func TestConvert_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if got := Convert(Request{Value: 1, Source: "hours", Target: "seconds"}); got != 3600 {
					t.Errorf("got %v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
