package sim

import (
	"fmt"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

type claimState int

const (
	claimPending claimState = iota
	claimGranted
	claimReleased
)

// Claim is a ticket for one unit of a MachinePool's capacity. It is created
// by Request, granted either immediately or when it reaches the head of the
// wait queue, and must be released exactly once after being granted.
type Claim struct {
	pool     *MachinePool
	owner    string
	state    claimState
	queuedAt float64
	onGrant  func() error
}

// Owner returns the identity of the process that issued the claim.
func (c *Claim) Owner() string { return c.owner }

// Granted reports whether the claim currently holds a machine.
func (c *Claim) Granted() bool { return c.state == claimGranted }

// QueuedAt returns the virtual time at which the claim was issued, i.e. when
// its owner began waiting for the machine.
func (c *Claim) QueuedAt() float64 { return c.queuedAt }

// MachinePool models a bank of identical machines of one type: a fixed
// capacity, an in-use count, and a strictly FIFO wait queue of pending
// claims. It is the sole synchronization point in the simulation; the only
// mutation path is the Request/Release protocol.
//
// There is no priority bypass: breakdown processes compete for capacity on
// equal footing with production work, so a breakdown's seizure of a machine
// can be deferred arbitrarily long behind a busy queue.
type MachinePool struct {
	kernel   *Kernel
	name     string
	capacity int
	inUse    int
	waiters  *linkedlistqueue.Queue
}

// NewMachinePool creates a pool of capacity identical machines.
// Capacity must be at least 1.
func NewMachinePool(kernel *Kernel, name string, capacity int) (*MachinePool, error) {
	if capacity < 1 {
		return nil, &InvalidRangeError{
			Field:  fmt.Sprintf("machines[%s].count", name),
			Reason: fmt.Sprintf("capacity must be at least 1, got %d", capacity),
		}
	}
	return &MachinePool{
		kernel:   kernel,
		name:     name,
		capacity: capacity,
		waiters:  linkedlistqueue.New(),
	}, nil
}

// Name returns the machine-type name identifying the pool.
func (p *MachinePool) Name() string { return p.name }

// Capacity returns the total number of machines in the pool.
func (p *MachinePool) Capacity() int { return p.capacity }

// InUse returns the number of machines currently held by claims.
func (p *MachinePool) InUse() int { return p.inUse }

// Waiting returns the number of claims queued for a machine.
func (p *MachinePool) Waiting() int { return p.waiters.Size() }

// Request claims one machine for the named owner. If a machine is free the
// claim is granted synchronously, in the same virtual instant: onGrant runs
// before Request returns. Otherwise the claim joins the tail of the FIFO
// wait queue and onGrant runs when a release makes it head-of-queue.
func (p *MachinePool) Request(owner string, onGrant func() error) (*Claim, error) {
	c := &Claim{
		pool:     p,
		owner:    owner,
		queuedAt: p.kernel.Now(),
		onGrant:  onGrant,
	}
	if p.inUse < p.capacity {
		p.inUse++
		c.state = claimGranted
		return c, onGrant()
	}
	p.waiters.Enqueue(c)
	return c, nil
}

// Release frees the machine held by c. If the wait queue is non-empty the
// head claim is granted: dequeued, counted in-use, and its owner resumed at
// the current virtual instant. This is the sole path by which queued
// processes make progress.
//
// Releasing a claim that was never granted, was already released, or
// belongs to another pool is an InvalidReleaseError.
func (p *MachinePool) Release(c *Claim) error {
	if c == nil {
		return &InvalidReleaseError{Pool: p.name, Reason: "nil claim"}
	}
	if c.pool != p {
		return &InvalidReleaseError{Pool: p.name, Owner: c.owner, Reason: "claim belongs to a different pool"}
	}
	switch c.state {
	case claimPending:
		return &InvalidReleaseError{Pool: p.name, Owner: c.owner, Reason: "claim was never granted"}
	case claimReleased:
		return &InvalidReleaseError{Pool: p.name, Owner: c.owner, Reason: "claim already released"}
	}
	c.state = claimReleased
	p.inUse--

	v, ok := p.waiters.Dequeue()
	if !ok {
		return nil
	}
	next := v.(*Claim)
	p.inUse++
	next.state = claimGranted
	// The grant happens in the same virtual instant, but the waiter's
	// continuation is dispatched through the kernel so the releasing
	// process runs to its own suspension point first.
	return p.kernel.ScheduleAfter(next.owner, 0, next.onGrant)
}
