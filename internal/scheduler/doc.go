// Package scheduler decides when a batch of due reminders interrupts the
// user. It runs a single-goroutine state machine fed by messages: the local
// init result, the one-shot "initial sync done" signal, due batches from a
// source, composer open/close changes and timer expiries.
//
// A batch reaches the Dispatcher only after the sync gate has opened (init
// done, sync signalled, plus a fixed settle delay) and only if no reminder
// dialog is open when it arrives. While the task composer is open the batch
// is held until the composer closes or a ceiling elapses, then for a short
// settle delay; a newer batch replaces a held one. The Dispatcher rate-limits
// notifications globally and opens a reminder dialog for task batches.
//
// Every delay goes through a Clock so tests can drive the machine with
// simulated time.
package scheduler
