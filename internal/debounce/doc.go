// Package debounce implements a trailing debounce with a maximum wait.
//
// A burst of calls is coalesced into a single invocation that runs once the
// calls go quiet for the wait period, or once the burst has lasted for the
// maximum wait, whichever comes first. Timers come from a Clock so tests and
// offline replays can drive time by hand.
package debounce
