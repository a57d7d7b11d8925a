package sim

import (
	"errors"
	"testing"
)

func TestMachinePool_ImmediateGrant(t *testing.T) {
	// GIVEN a pool with free capacity
	k := NewKernel()
	p, err := NewMachinePool(k, "Machining", 2)
	if err != nil {
		t.Fatalf("NewMachinePool: %v", err)
	}

	// WHEN a claim is requested
	granted := false
	c, err := p.Request("u1", func() error {
		granted = true
		return nil
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	// THEN it is granted synchronously, before Request returns
	if !granted {
		t.Error("onGrant did not run synchronously with free capacity")
	}
	if !c.Granted() {
		t.Error("claim not marked granted")
	}
	if p.InUse() != 1 || p.Waiting() != 0 {
		t.Errorf("pool state: inUse=%d waiting=%d, want 1/0", p.InUse(), p.Waiting())
	}
}

func TestMachinePool_FIFOGrantOrder(t *testing.T) {
	// GIVEN a saturated capacity-1 pool with three waiters queued in order
	k := NewKernel()
	p, err := NewMachinePool(k, "Packaging", 1)
	if err != nil {
		t.Fatalf("NewMachinePool: %v", err)
	}
	holder, err := p.Request("holder", func() error { return nil })
	if err != nil {
		t.Fatalf("Request holder: %v", err)
	}

	var grants []string
	claims := make(map[string]*Claim)
	for _, name := range []string{"w1", "w2", "w3"} {
		name := name
		c, err := p.Request(name, func() error {
			grants = append(grants, name)
			return p.Release(claims[name])
		})
		if err != nil {
			t.Fatalf("Request %s: %v", name, err)
		}
		if c.Granted() {
			t.Fatalf("claim %s granted on a saturated pool", name)
		}
		claims[name] = c
	}
	if p.Waiting() != 3 {
		t.Fatalf("waiting: got %d, want 3", p.Waiting())
	}

	// WHEN the holder releases and each waiter releases in turn
	if err := p.Release(holder); err != nil {
		t.Fatalf("Release holder: %v", err)
	}
	if err := k.RunUntil(0); err != nil {
		t.Fatalf("RunUntil: %v", err)
	}

	// THEN grants happened in strict queue order
	want := []string{"w1", "w2", "w3"}
	if len(grants) != len(want) {
		t.Fatalf("grants: got %v, want %v", grants, want)
	}
	for i := range want {
		if grants[i] != want[i] {
			t.Errorf("grant[%d]: got %s, want %s", i, grants[i], want[i])
		}
	}
	if p.InUse() != 0 || p.Waiting() != 0 {
		t.Errorf("final pool state: inUse=%d waiting=%d, want 0/0", p.InUse(), p.Waiting())
	}
}

func TestMachinePool_InUseNeverExceedsCapacity(t *testing.T) {
	// GIVEN a capacity-2 pool under heavy contention
	k := NewKernel()
	p, err := NewMachinePool(k, "Assembly", 2)
	if err != nil {
		t.Fatalf("NewMachinePool: %v", err)
	}

	check := func() {
		if p.InUse() > p.Capacity() {
			t.Fatalf("inUse %d exceeds capacity %d", p.InUse(), p.Capacity())
		}
	}
	claims := make([]*Claim, 0, 6)
	for i := 0; i < 6; i++ {
		c, err := p.Request("u", func() error {
			check()
			return nil
		})
		if err != nil {
			t.Fatalf("Request: %v", err)
		}
		claims = append(claims, c)
		check()
	}

	// WHEN granted claims are released one at a time
	for _, c := range claims {
		if !c.Granted() {
			continue
		}
		if err := p.Release(c); err != nil {
			t.Fatalf("Release: %v", err)
		}
		if err := k.RunUntil(k.Now()); err != nil {
			t.Fatalf("RunUntil: %v", err)
		}
		check()
	}
}

func TestMachinePool_ReleaseNeverGranted(t *testing.T) {
	k := NewKernel()
	p, err := NewMachinePool(k, "Machining", 1)
	if err != nil {
		t.Fatalf("NewMachinePool: %v", err)
	}
	if _, err := p.Request("holder", func() error { return nil }); err != nil {
		t.Fatalf("Request holder: %v", err)
	}
	pending, err := p.Request("waiter", func() error { return nil })
	if err != nil {
		t.Fatalf("Request waiter: %v", err)
	}

	var rerr *InvalidReleaseError
	if err := p.Release(pending); !errors.As(err, &rerr) {
		t.Fatalf("release of pending claim: got %v, want InvalidReleaseError", err)
	}
	if rerr.Owner != "waiter" {
		t.Errorf("InvalidReleaseError.Owner: got %q, want %q", rerr.Owner, "waiter")
	}
}

func TestMachinePool_DoubleRelease(t *testing.T) {
	k := NewKernel()
	p, err := NewMachinePool(k, "Machining", 1)
	if err != nil {
		t.Fatalf("NewMachinePool: %v", err)
	}
	c, err := p.Request("u1", func() error { return nil })
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := p.Release(c); err != nil {
		t.Fatalf("first Release: %v", err)
	}

	var rerr *InvalidReleaseError
	if err := p.Release(c); !errors.As(err, &rerr) {
		t.Fatalf("second Release: got %v, want InvalidReleaseError", err)
	}
}

func TestMachinePool_ReleaseForeignClaim(t *testing.T) {
	k := NewKernel()
	p1, err := NewMachinePool(k, "Machining", 1)
	if err != nil {
		t.Fatalf("NewMachinePool: %v", err)
	}
	p2, err := NewMachinePool(k, "Assembly", 1)
	if err != nil {
		t.Fatalf("NewMachinePool: %v", err)
	}
	c, err := p1.Request("u1", func() error { return nil })
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	var rerr *InvalidReleaseError
	if err := p2.Release(c); !errors.As(err, &rerr) {
		t.Fatalf("cross-pool release: got %v, want InvalidReleaseError", err)
	}
}

func TestMachinePool_ZeroCapacityRejected(t *testing.T) {
	k := NewKernel()
	var rerr *InvalidRangeError
	if _, err := NewMachinePool(k, "Machining", 0); !errors.As(err, &rerr) {
		t.Fatalf("capacity 0: got %v, want InvalidRangeError", err)
	}
}

func TestMachinePool_GrantRunsAfterReleaserResumes(t *testing.T) {
	// GIVEN a saturated pool with one waiter; the releasing process appends
	// a marker after Release returns
	k := NewKernel()
	p, err := NewMachinePool(k, "QualityControl", 1)
	if err != nil {
		t.Fatalf("NewMachinePool: %v", err)
	}
	var order []string
	holder, err := p.Request("holder", func() error { return nil })
	if err != nil {
		t.Fatalf("Request holder: %v", err)
	}
	if _, err := p.Request("waiter", func() error {
		order = append(order, "waiter-granted")
		return nil
	}); err != nil {
		t.Fatalf("Request waiter: %v", err)
	}

	// WHEN the holder releases mid-continuation
	if err := k.ScheduleAfter("holder", 5, func() error {
		if err := p.Release(holder); err != nil {
			return err
		}
		order = append(order, "holder-after-release")
		return nil
	}); err != nil {
		t.Fatalf("ScheduleAfter: %v", err)
	}
	if err := k.RunUntil(5); err != nil {
		t.Fatalf("RunUntil: %v", err)
	}

	// THEN the releaser ran to its suspension point before the waiter
	// resumed, both in the same virtual instant
	want := []string{"holder-after-release", "waiter-granted"}
	if len(order) != 2 || order[0] != want[0] || order[1] != want[1] {
		t.Errorf("resume order: got %v, want %v", order, want)
	}
	if k.Now() != 5 {
		t.Errorf("clock: got %g, want 5", k.Now())
	}
}
