// Package geom provides the document-space rectangle and point types shared
// by the position resolver, the hover tracker and the hosts.
package geom
