package aios

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func fakeFactory(trace *[]call, mu *sync.Mutex) HandlerFactory {
	return HandlerFactory{
		New: func(name string) OutputHandler {
			return newFakeOutput(name, trace, mu)
		},
		NewAsyncRequired: func(name string) OutputHandler {
			h := newFakeOutput(name, trace, mu)
			h.async = true
			return h
		},
	}
}

func TestScenarioS1_BasicLockCommit(t *testing.T) {
	var trace []call
	mu := newTraceMutex()
	res := runScenarioS1(context.Background(), fakeFactory(&trace, mu))
	if res.Err != nil {
		t.Fatalf("S1: %v", res.Err)
	}
	conn, _ := res.Root.Machine("conn")
	if cur, _ := conn.Current(); cur != "offline" {
		t.Fatalf("S1: conn.current = %q, want offline", cur)
	}
	want := []call{{"g", "acquire_lock", "offline"}, {"g", "change", ""}, {"g", "release_lock", ""}}
	if len(trace) != len(want) {
		t.Fatalf("S1 trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("S1 trace[%d] = %+v, want %+v", i, trace[i], want[i])
		}
	}
}

func TestScenarioS2_Veto(t *testing.T) {
	var trace []call
	mu := newTraceMutex()
	res := runScenarioS2(context.Background(), fakeFactory(&trace, mu))
	if !errors.Is(res.Err, ErrLockRefused) {
		t.Fatalf("S2: expected ErrLockRefused, got %v", res.Err)
	}
	conn, _ := res.Root.Machine("conn")
	if cur, ok := conn.Current(); ok {
		t.Fatalf("S2: expected conn.current still undefined, got %q", cur)
	}
	for _, c := range trace {
		if c.Op == "change" {
			t.Fatalf("S2: expected no change call, got trace %v", trace)
		}
	}
}

func TestScenarioS3_WiringFanOut(t *testing.T) {
	var trace []call
	mu := newTraceMutex()
	res := runScenarioS3(context.Background(), fakeFactory(&trace, mu))
	if res.Err != nil {
		t.Fatalf("S3: %v", res.Err)
	}
	conn, _ := res.Root.Machine("conn")
	door, _ := res.Root.Machine("door")
	if cur, _ := conn.Current(); cur != "slow" {
		t.Fatalf("S3: conn.current = %q, want slow (after the second trigger)", cur)
	}
	if cur, _ := door.Current(); cur != "closed" {
		t.Fatalf("S3: door.current = %q, want closed (slow re-closes the door)", cur)
	}
}

func TestScenarioS4_ChainedWiring(t *testing.T) {
	var trace []call
	mu := newTraceMutex()
	res := runScenarioS4(context.Background(), fakeFactory(&trace, mu))
	if res.Err != nil {
		t.Fatalf("S4: %v", res.Err)
	}
	conn, _ := res.Root.Machine("conn")
	door, _ := res.Root.Machine("door")
	alarm, _ := res.Root.Machine("alarm")
	if cur, _ := conn.Current(); cur != "online" {
		t.Fatalf("S4: conn.current = %q, want online", cur)
	}
	if cur, _ := door.Current(); cur != "open" {
		t.Fatalf("S4: door.current = %q, want open", cur)
	}
	if cur, _ := alarm.Current(); cur != "armed" {
		t.Fatalf("S4: alarm.current = %q, want armed", cur)
	}
}

func TestScenarioS5_AsyncRequired(t *testing.T) {
	var trace []call
	mu := newTraceMutex()
	res := runScenarioS5(context.Background(), fakeFactory(&trace, mu))
	if res.Err != nil {
		t.Fatalf("S5: %v", res.Err)
	}
	m, _ := res.Root.Machine("m")
	if cur, _ := m.Current(); cur != "y" {
		t.Fatalf("S5: m.current = %q, want y", cur)
	}
}

func TestScenarioS6_DuplicateChildName(t *testing.T) {
	var trace []call
	mu := newTraceMutex()
	res := runScenarioS6(context.Background(), fakeFactory(&trace, mu))
	if !errors.Is(res.Err, ErrNameConflict) {
		t.Fatalf("S6: expected ErrNameConflict, got %v", res.Err)
	}
}

func TestScenariosTable_CoversS1ThroughS6(t *testing.T) {
	if len(Scenarios) != 6 {
		t.Fatalf("len(Scenarios) = %d, want 6", len(Scenarios))
	}
	for i, want := range []string{"s1", "s2", "s3", "s4", "s5", "s6"} {
		if Scenarios[i].ID != want {
			t.Fatalf("Scenarios[%d].ID = %q, want %q", i, Scenarios[i].ID, want)
		}
	}
}
