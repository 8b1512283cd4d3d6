// Package placement parses Placement.info documents into a tree of
// conditional match scopes and shape locations, and evaluates that tree
// against the runtime context of a shape.
//
// A placement document is XML. Its root and grouping elements are named
// Placement or Match; their attributes are condition terms. Leaf elements
// are named Place; each attribute maps a shape type to a location:
//
//	<Placement>
//	  <Place Parts_Title="Header:5"/>
//	  <Match DisplayType="Summary">
//	    <Place Parts_Body="-"/>
//	  </Match>
//	</Placement>
//
// A Match or Placement element without attributes is an always-true scope
// and is flattened away at parse time: its children join the parent level.
package placement
