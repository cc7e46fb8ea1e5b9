package layout

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/position"
)

// Role marks a box the popover host needs to find.
type Role string

const (
	RoleAnchor Role = "anchor"
	RoleParent Role = "parent"
)

// Scene is a parsed element tree.
type Scene struct {
	Name     string
	Document *position.Document

	roles map[Role]*position.Node
}

// Find returns the box with the given id, or nil.
func (s *Scene) Find(id string) *position.Node {
	return s.Document.Find(id)
}

// Role returns the box marked with role, or nil.
func (s *Scene) Role(r Role) *position.Node {
	return s.roles[r]
}

// Anchor returns the box marked role="anchor".
func (s *Scene) Anchor() *position.Node { return s.roles[RoleAnchor] }

// Parent returns the box marked role="parent". If none is marked, the
// anchor's parent is used.
func (s *Scene) Parent() *position.Node {
	if p := s.roles[RoleParent]; p != nil {
		return p
	}
	if a := s.roles[RoleAnchor]; a != nil {
		return a.Parent()
	}
	return nil
}

// Boxes returns every box under the body in document order.
func (s *Scene) Boxes() []*position.Node {
	var out []*position.Node
	for _, c := range s.Document.Body.Children() {
		c.Walk(func(n *position.Node) { out = append(out, n) })
	}
	return out
}

// ParseScene parses an XML scene from a reader.
func ParseScene(r io.Reader) (*Scene, error) {
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("scene has no <scene> root element")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read scene: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "scene" {
			return nil, fmt.Errorf("unexpected root element <%s>, want <scene>", se.Name.Local)
		}
		return parseRoot(decoder, se)
	}
}

func parseRoot(decoder *xml.Decoder, se xml.StartElement) (*Scene, error) {
	doc := position.NewDocument(0, 0)
	scene := &Scene{Document: doc, roles: make(map[Role]*position.Node)}

	for _, attr := range se.Attr {
		v := attr.Value
		var err error
		switch attr.Name.Local {
		case "name":
			scene.Name = v
		case "width":
			doc.Body.Offset.Width, err = parsePixelValue(v)
		case "height":
			doc.Body.Offset.Height, err = parsePixelValue(v)
		case "scroll-left":
			doc.Scroll.X, err = parsePixelValue(v)
		case "scroll-top":
			doc.Scroll.Y, err = parsePixelValue(v)
		case "body-scroll-left":
			doc.Body.Scroll.X, err = parsePixelValue(v)
		case "body-scroll-top":
			doc.Body.Scroll.Y, err = parsePixelValue(v)
		default:
			return nil, fmt.Errorf("unknown scene attribute: %s", attr.Name.Local)
		}
		if err != nil {
			return nil, fmt.Errorf("scene attribute %s: %w", attr.Name.Local, err)
		}
	}

	seen := map[string]bool{"body": true}
	if err := parseBoxes(decoder, doc.Body, scene, seen); err != nil {
		return nil, err
	}
	return scene, nil
}

// parsePixelValue parses a pixel value string (e.g., "300", "300px", "-12.5").
func parsePixelValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pixel value %q", s)
	}
	return v, nil
}

// parseBoxes recursively parses child boxes of parent.
func parseBoxes(decoder *xml.Decoder, parent *position.Node, scene *Scene, seen map[string]bool) error {
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read element: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if strings.ToLower(t.Name.Local) != "box" {
				return fmt.Errorf("unknown element type: %s", t.Name.Local)
			}

			node, role, err := parseBox(t)
			if err != nil {
				return err
			}
			if node.ID != "" {
				if seen[node.ID] {
					return fmt.Errorf("duplicate box id: %s", node.ID)
				}
				seen[node.ID] = true
			}
			if role != "" {
				if _, dup := scene.roles[role]; dup {
					return fmt.Errorf("role %q assigned more than once", role)
				}
				scene.roles[role] = node
			}
			parent.Append(node)

			if err := parseBoxes(decoder, node, scene, seen); err != nil {
				return err
			}

		case xml.EndElement:
			return nil
		}
	}
}

func parseBox(se xml.StartElement) (*position.Node, Role, error) {
	node := &position.Node{}
	var role Role

	for _, attr := range se.Attr {
		name := attr.Name.Local
		v := attr.Value
		var err error
		switch name {
		case "id":
			node.ID = v
		case "role":
			switch r := Role(strings.ToLower(v)); r {
			case RoleAnchor, RoleParent:
				role = r
			default:
				return nil, "", fmt.Errorf("unknown role %q", v)
			}
		case "offset-left":
			node.Offset.X, err = parsePixelValue(v)
		case "offset-top":
			node.Offset.Y, err = parsePixelValue(v)
		case "width":
			node.Offset.Width, err = parsePixelValue(v)
		case "height":
			node.Offset.Height, err = parsePixelValue(v)
		case "client-left":
			node.Border.X, err = parsePixelValue(v)
		case "client-top":
			node.Border.Y, err = parsePixelValue(v)
		case "scroll-left":
			node.Scroll.X, err = parsePixelValue(v)
		case "scroll-top":
			node.Scroll.Y, err = parsePixelValue(v)
		default:
			return nil, "", fmt.Errorf("unknown box attribute: %s", name)
		}
		if err != nil {
			return nil, "", fmt.Errorf("box %q attribute %s: %w", node.ID, name, err)
		}
	}

	if node.Offset.Width < 0 || node.Offset.Height < 0 {
		return nil, "", fmt.Errorf("box %q has negative size", node.ID)
	}
	return node, role, nil
}

// ParseSceneString parses a scene from a string.
func ParseSceneString(s string) (*Scene, error) {
	return ParseScene(strings.NewReader(s))
}

// LoadScene loads a scene from file. The scene name defaults to the file
// name without extension.
func LoadScene(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene: %w", err)
	}
	defer func() { _ = f.Close() }()

	scene, err := ParseScene(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}
	if scene.Name == "" {
		scene.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scene, nil
}

// Rect is a convenience for resolving a box by id against the scene's
// document. ok is false if no such box exists.
func (s *Scene) Rect(id string) (geom.Rect, bool) {
	n := s.Find(id)
	if n == nil {
		return geom.Rect{}, false
	}
	return s.Document.Resolve(n), true
}
