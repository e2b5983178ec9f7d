// Package events carries notifications about completed scheduling work,
// such as a recorded review or an initialized deck, to handlers that live
// outside the review service. Events are emitted after the unit of work
// commits, so a handler never observes a change that was rolled back.
package events
