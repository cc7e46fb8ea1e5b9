// Package trace replays recorded pointer traces against a popover offline,
// on a manual clock, and reports the close requests they produce.
package trace
