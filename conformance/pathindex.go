package conformance

import (
	"fmt"
	"strings"
)

// PathIndex maps concrete request paths back to the template paths declared
// in a contract. It is a prefix trie over path segments: literal segments
// descend into named children, and a "{name}" segment descends into a single
// shared capture child that matches any non-empty literal at that position.
//
// A PathIndex is built once when the registry is constructed and is read-only
// afterwards, so it is safe for unbounded concurrent lookups.
type PathIndex struct {
	root *indexNode
}

// indexNode is one trie node. terminal holds the full declared template that
// ends at this node ("" when none). A node has at most one capture child.
type indexNode struct {
	terminal string
	capture  *indexNode
	children map[string]*indexNode
}

func newIndexNode() *indexNode {
	return &indexNode{children: make(map[string]*indexNode)}
}

// NewPathIndex builds an index from the given template paths.
// Returns an error if any template is empty or if two distinct templates
// normalize to the same trie terminal (the contract is malformed).
func NewPathIndex(templates []string) (*PathIndex, error) {
	idx := &PathIndex{root: newIndexNode()}
	for _, template := range templates {
		if err := idx.insert(template); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// insert adds one template to the trie.
func (idx *PathIndex) insert(template string) error {
	if template == "" {
		return fmt.Errorf("conformance: path template cannot be empty")
	}

	node := idx.root
	for _, seg := range splitSegments(template) {
		if isCaptureSegment(seg) {
			if node.capture == nil {
				node.capture = newIndexNode()
			}
			node = node.capture
			continue
		}
		child, ok := node.children[seg]
		if !ok {
			child = newIndexNode()
			node.children[seg] = child
		}
		node = child
	}

	if node.terminal != "" && node.terminal != template {
		return fmt.Errorf("conformance: path templates %q and %q conflict", node.terminal, template)
	}
	node.terminal = template
	return nil
}

// Lookup walks the trie for a concrete request path and returns the declared
// template it instantiates, if any. At each segment the literal child is
// tried first; if the literal subtree yields no terminal for the remaining
// suffix, the search backtracks into the capture child. The first terminal
// found in this depth-first, literal-before-capture order wins.
func (idx *PathIndex) Lookup(path string) (string, bool) {
	return idx.root.find(splitSegments(path))
}

func (n *indexNode) find(segs []string) (string, bool) {
	if len(segs) == 0 {
		if n.terminal != "" {
			return n.terminal, true
		}
		return "", false
	}

	if child, ok := n.children[segs[0]]; ok {
		if template, ok := child.find(segs[1:]); ok {
			return template, true
		}
	}

	// Capture segments match any non-empty literal.
	if n.capture != nil && segs[0] != "" {
		return n.capture.find(segs[1:])
	}
	return "", false
}

// splitSegments splits on the path separator without normalization, so a
// trailing slash remains significant and the leading empty segment is
// consistent between insert and lookup.
func splitSegments(path string) []string {
	return strings.Split(path, "/")
}

// isCaptureSegment reports whether seg is a "{name}" wildcard segment.
func isCaptureSegment(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}
