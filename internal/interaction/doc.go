/*
Package interaction holds the finite-state protocols that turn raw pointer
and keyboard events into graph mutations: the two-phase connection machine,
the household boundary drawing machine, the child-connection decision policy
and the selection state.

The machines hold only transient interaction state (current step, accumulated
points, pending ids); entity data lives exclusively in the graph store. Every
invalid input is a silent no-op rather than an error, and cancellation is a
single idempotent transition.
*/
package interaction
