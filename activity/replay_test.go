package activity

import (
	"strings"
	"testing"
	"time"
)

func TestReadReplay(t *testing.T) {
	input := `{"app_name":"editor","window_title":"main.go","hash_distance":12,"was_skipped":false,"timestamp_ms":1767900000000}

{"app_name":"browser","window_title":"docs","hash_distance":40,"was_skipped":true,"timestamp_ms":1767900001000}
`
	ticks, err := ReadReplay(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadReplay: %v", err)
	}
	if len(ticks) != 2 {
		t.Fatalf("len = %d, want 2", len(ticks))
	}
	if ticks[0].AppName != "editor" || ticks[0].HashDistance != 12 {
		t.Fatalf("first tick = %+v", ticks[0])
	}
	if !ticks[1].WasSkipped {
		t.Fatalf("second tick should be skipped")
	}
	want := time.UnixMilli(1767900001000)
	if !ticks[1].Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", ticks[1].Timestamp, want)
	}
}

func TestReadReplayReportsBadLine(t *testing.T) {
	input := `{"app_name":"editor","timestamp_ms":1}
not json
`
	_, err := ReadReplay(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want line 2 error", err)
	}
}

func TestSyntheticIsDeterministic(t *testing.T) {
	a := NewSynthetic(7)
	b := NewSynthetic(7)
	at := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		ta := a.Next(at)
		tb := b.Next(at)
		if ta != tb {
			t.Fatalf("tick %d diverged: %+v vs %+v", i, ta, tb)
		}
		if ta.HashDistance < 0 || ta.HashDistance > 64 {
			t.Fatalf("hash distance out of range: %d", ta.HashDistance)
		}
		at = at.Add(time.Second)
	}
}
