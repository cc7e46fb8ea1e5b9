// Package hover watches pointer movement while a popover is open and asks
// for dismissal once movement settles outside the popover's hit-region.
//
// A Tracker is idle until Start and returns to idle on Stop. While tracking
// it samples the pointer stream through a debounced handler, so it never
// reacts to every raw event and never waits indefinitely during continuous
// motion.
package hover
