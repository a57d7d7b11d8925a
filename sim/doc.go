// Package sim provides the discrete-event simulation core for the factory
// line model.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - kernel.go: the virtual clock and the event loop that resumes processes
//   - pool.go: the fixed-capacity FIFO machine pool (the only shared resource)
//   - runner.go: how one scenario is assembled and driven to its horizon
//
// # Architecture
//
// All apparent concurrency is cooperative interleaving: the Kernel pops the
// earliest event, advances the clock, and runs the attached continuation to
// its next suspension point. A suspension point is either a timed delay
// (Kernel.ScheduleAfter) or a wait for a machine grant (MachinePool.Request).
// Exactly one continuation runs at a time, so processes never observe partial
// state of another process, and same-instant events resolve in FIFO
// submission order.
//
// The process kinds are:
//   - pipeline.go: one unit moving through Machining → Assembly →
//     QualityControl → Packaging
//   - arrival.go: per product type, spawns pipeline units at exponentially
//     distributed intervals
//   - breakdown.go: per machine type, periodically seizes one machine for a
//     repair duration, competing with production work on equal FIFO footing
//   - shift.go: cycles the staffing-period label (observational only)
//
// Sub-package sim/trace records virtual-time-stamped observations for
// offline analysis and live streaming.
package sim
