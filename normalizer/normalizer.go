// Package normalizer flattens whatever shape of Reddit JSON a caller posts
// (a raw Listing, a bare children list, a nested {category: {subreddit:
// listing}} blob, or an already flat list of posts) into one list of post
// records.
package normalizer

// MaxDepth bounds the walk. Subtrees nested deeper than this are skipped.
const MaxDepth = 64

// Normalize returns the post records found in root, deduplicated by id, then
// name, then node identity, in the order they were first seen. It never fails:
// input with no recognizable posts yields an empty slice.
func Normalize(root *Node) []*Node {
	w := &walker{
		seen:    map[interface{}]struct{}{},
		records: []*Node{},
	}
	w.walk(root, 0)
	return w.records
}

// NormalizeJSON parses data and normalizes it.
func NormalizeJSON(data []byte) ([]*Node, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Normalize(root), nil
}

type walker struct {
	seen    map[interface{}]struct{}
	records []*Node
}

func (w *walker) walk(n *Node, depth int) {
	if n == nil || depth > MaxDepth {
		return
	}

	switch n.Kind {
	case Mapping:
		if children := listingChildren(n); children != nil {
			w.listing(children)
			return
		}
		for _, v := range n.Values() {
			w.walk(v, depth+1)
		}
	case Sequence:
		for _, el := range n.Items() {
			if el.IsMapping() {
				if data := el.Get("data"); data.IsMapping() {
					w.record(data)
					continue
				}
				if isFlatPost(el) {
					w.record(el)
					continue
				}
			}
			w.walk(el, depth+1)
		}
	}
}

// listingChildren returns the children sequence of a Listing, either
// {"data": {"children": [...]}} or the partially unwrapped {"children": [...]}.
func listingChildren(n *Node) *Node {
	if children := n.Get("data").Get("children"); children.IsSequence() {
		return children
	}
	if children := n.Get("children"); children.IsSequence() {
		return children
	}
	return nil
}

func (w *walker) listing(children *Node) {
	for _, child := range children.Items() {
		data := child.Get("data")
		if data.IsMapping() && data.Len() > 0 {
			w.record(data)
		}
	}
}

// isFlatPost reports whether a sequence element is itself a post record
// rather than a container to descend into.
func isFlatPost(n *Node) bool {
	if listingChildren(n) != nil {
		return false
	}
	return n.Get("id").IsScalar() && !n.Get("id").IsNull() ||
		n.Get("name").IsScalar() && !n.Get("name").IsNull()
}

func (w *walker) record(n *Node) {
	key := identity(n)
	if _, ok := w.seen[key]; ok {
		return
	}
	w.seen[key] = struct{}{}
	w.records = append(w.records, n)
}

type scalarKey struct {
	scalarType ScalarType
	text       string
}

// identity is the dedup key of a record: a truthy scalar id, else a truthy
// scalar name, else the node itself.
func identity(n *Node) interface{} {
	for _, key := range []string{"id", "name"} {
		v := n.Get(key)
		if !v.IsScalar() || !v.Truthy() {
			continue
		}
		if text, ok := v.Text(); ok {
			return scalarKey{v.scalarType, text}
		}
	}
	return n
}
