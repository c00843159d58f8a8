package watch

import (
	"sync"
	"testing"
	"time"
)

var t0 = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func reading(ts time.Time, tvl, apy float64) MetricReading {
	return MetricReading{
		PoolAddress: "0xabc",
		Protocol:    "uniswap-v3",
		Chain:       1,
		TVLUSD:      tvl,
		APY:         apy,
		Timestamp:   ts,
	}
}

func TestFindAtOrBefore(t *testing.T) {
	s := NewStore(24 * time.Hour)
	key := Key(1, "0xAbC")

	for i := 0; i < 5; i++ {
		s.Record(key, reading(t0.Add(time.Duration(i)*time.Minute), float64(1000+i), 5))
	}

	tests := []struct {
		name    string
		target  time.Time
		wantTVL float64
		wantNil bool
	}{
		{"exact timestamp", t0.Add(2 * time.Minute), 1002, false},
		{"between readings", t0.Add(150 * time.Second), 1002, false},
		{"after all", t0.Add(time.Hour), 1004, false},
		{"before all", t0.Add(-time.Second), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.FindAtOrBefore(key, tt.target)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("got nil, want reading")
			}
			if got.TVLUSD != tt.wantTVL {
				t.Errorf("TVLUSD = %v, want %v", got.TVLUSD, tt.wantTVL)
			}
		})
	}
}

func TestFindAtOrBeforeTieBreak(t *testing.T) {
	s := NewStore(24 * time.Hour)
	key := Key(1, "0xabc")

	// Two readings sharing a timestamp: lookup returns the one
	// inserted last.
	s.Record(key, reading(t0, 100, 1))
	s.Record(key, reading(t0, 200, 2))

	got := s.FindAtOrBefore(key, t0)
	if got == nil {
		t.Fatal("got nil, want reading")
	}
	if got.TVLUSD != 200 {
		t.Errorf("TVLUSD = %v, want 200 (last inserted)", got.TVLUSD)
	}
}

func TestRecordOutOfOrder(t *testing.T) {
	s := NewStore(24 * time.Hour)
	key := Key(1, "0xabc")

	s.Record(key, reading(t0.Add(10*time.Minute), 300, 0))
	s.Record(key, reading(t0, 100, 0))
	s.Record(key, reading(t0.Add(5*time.Minute), 200, 0))

	got := s.FindAtOrBefore(key, t0.Add(6*time.Minute))
	if got == nil || got.TVLUSD != 200 {
		t.Fatalf("got %+v, want TVL 200", got)
	}
	if n := s.Len(key); n != 3 {
		t.Errorf("Len = %d, want 3", n)
	}
}

func TestPruneKeepsLatest(t *testing.T) {
	s := NewStore(time.Hour)
	key := Key(1, "0xabc")

	s.Record(key, reading(t0, 100, 1))
	s.Record(key, reading(t0.Add(time.Minute), 200, 1))

	// Everything is "expired", yet the latest entry must survive.
	s.Prune(key, t0.Add(48*time.Hour))

	if n := s.Len(key); n != 1 {
		t.Fatalf("Len = %d, want 1", n)
	}
	got := s.FindAtOrBefore(key, t0.Add(48*time.Hour))
	if got == nil || got.TVLUSD != 200 {
		t.Errorf("got %+v, want latest reading with TVL 200", got)
	}
}

func TestRetentionOnRecord(t *testing.T) {
	s := NewStore(time.Hour)
	key := Key(1, "0xabc")

	s.Record(key, reading(t0, 100, 1))
	s.Record(key, reading(t0.Add(30*time.Minute), 200, 1))
	// This append pushes the first reading outside the 1h window.
	s.Record(key, reading(t0.Add(90*time.Minute), 300, 1))

	if n := s.Len(key); n != 2 {
		t.Errorf("Len = %d, want 2 after lazy prune", n)
	}
	if got := s.FindAtOrBefore(key, t0); got != nil {
		t.Errorf("expired reading still reachable: %+v", got)
	}
}

func TestFindUnknownPool(t *testing.T) {
	s := NewStore(24 * time.Hour)
	if got := s.FindAtOrBefore(Key(1, "0xnope"), t0); got != nil {
		t.Errorf("got %+v, want nil for unknown pool", got)
	}
	if n := s.Len(Key(1, "0xnope")); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestConcurrentPools(t *testing.T) {
	s := NewStore(24 * time.Hour)

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			key := Key(1, string(rune('a'+p)))
			for i := 0; i < 100; i++ {
				s.Record(key, reading(t0.Add(time.Duration(i)*time.Second), float64(i), 0))
				s.FindAtOrBefore(key, t0.Add(time.Duration(i)*time.Second))
			}
		}(p)
	}
	wg.Wait()

	if got := s.Pools(); got != 8 {
		t.Errorf("Pools = %d, want 8", got)
	}
	for p := 0; p < 8; p++ {
		key := Key(1, string(rune('a'+p)))
		if n := s.Len(key); n != 100 {
			t.Errorf("pool %d: Len = %d, want 100", p, n)
		}
	}
}
