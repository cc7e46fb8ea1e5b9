// Package display computes the presentation geometry of an open popover:
// where the panel, its arrow and the invisible hover hit-probe sit relative
// to the anchor and its parent.
package display
