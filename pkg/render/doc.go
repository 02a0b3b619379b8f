// Package render serializes an in-memory host tree to HTML.
//
// It is used for snapshots, the inspector, and test assertions:
//
//	html := render.NewRenderer(render.RendererConfig{}).RenderToString(doc.Body())
//
// Output is deterministic. Attributes and style properties are written in
// sorted order, text and attribute values are escaped, void elements have
// no closing tag, and boolean attributes are written bare when true and
// omitted when "false". Node fields (value, checked) are serialized as
// attributes when no attribute of the same name is set. Bound listeners
// appear as data-on-<event> markers.
package render
