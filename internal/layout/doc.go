// Package layout loads scenes: XML descriptions of element trees whose
// nesting defines the offset-parent chain used for position resolution.
//
// A scene looks like:
//
//	<scene width="1280" height="800" scroll-top="120">
//	  <box id="toolbar" role="parent" offset-left="100" offset-top="400" width="600" height="40">
//	    <box id="button" role="anchor" offset-left="420" offset-top="5" width="80" height="30" />
//	  </box>
//	</scene>
//
// The scene element is the document body. Its scroll attributes are the page
// scroll; body-scroll-left/top set the body's own scroll offsets.
package layout
