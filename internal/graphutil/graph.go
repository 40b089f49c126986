// Package graphutil provides generic graph algorithms (strongly
// connected components, elementary cycle enumeration) and a
// gonum/yourbasic-graph-compatible adapter over a Repository's
// successor adjacency, used by the aardwolf-llvm-stats companion
// command to report loop structure in a module's statement graph.
//
// Grounded on the teacher's internal/graphutil/graph.go, which adapted
// a golang.org/x/tools/go/callgraph.Graph into the same two third-party
// graph interfaces (gonum's graph.Graph and yourbasic/graph's Iterator)
// this package now adapts a StatementGraph to instead.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"

	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
)

// SGraph is a statement-successor graph view over a Repository, built
// once per module and reused by both the cycle finder and any gonum
// consumer. Nodes are packed StatementIDs (see NodeID); edges are the
// Repository's successor relation, deduplicated (a cycle/SCC query
// cares about reachability, not edge multiplicity).
type SGraph struct {
	order int
	IDMap map[int64]SNode
	Keys  []int64
	Edges map[int64]map[int64]bool
}

// SNode is one statement node: its packed id plus the function it
// belongs to, for human-readable reporting.
type SNode struct {
	id       int64
	Function string
}

// ID implements gonum's graph.Node.
func (n SNode) ID() int64 { return n.id }

func (n SNode) String() string { return n.Function }

// NodeID packs a repository.StatementID the same way internal/encode
// and internal/instrument do, so ids are consistent across the
// artifact, the instrumented trace, and this in-memory graph view.
func NodeID(id repository.StatementID) int64 {
	return int64(uint32(id.FileID))<<32 | int64(uint32(id.Counter))
}

// NewStatementGraph builds an SGraph from every statement repo knows
// about, across every function, with one edge per distinct successor
// pair.
func NewStatementGraph(repo *repository.Repository) SGraph {
	nodeFn := make(map[int64]string)
	edges := make(map[int64][]int64)

	for _, fn := range repo.FunctionOrder() {
		for _, instr := range repo.FunctionInstrs(fn) {
			id, ok := repo.StatementIDOf(instr)
			if !ok {
				continue
			}
			nid := NodeID(id)
			nodeFn[nid] = fn
			if _, ok := edges[nid]; !ok {
				edges[nid] = nil
			}

			for _, succ := range repo.Successors(instr) {
				sid, ok := repo.StatementIDOf(succ)
				if !ok {
					continue
				}
				edges[nid] = append(edges[nid], NodeID(sid))
			}
		}
	}

	return NewGraphFromEdges(edges, nodeFn)
}

// NewGraphFromEdges builds an SGraph directly from a node -> successors
// adjacency, with an optional per-node label (e.g. enclosing function
// name; nil if the caller has no labels, as when rebuilding a graph
// from a decoded artifact that records ids but not which function each
// belongs to per node — the stats command passes one built from its
// own per-function grouping instead). This is the shared foundation
// NewStatementGraph (live Repository) and aardwolf-llvm-stats (decoded
// artifact) both build on, so cycle/SCC reporting is identical either
// way.
func NewGraphFromEdges(edges map[int64][]int64, nodeFn map[int64]string) SGraph {
	idmap := make(map[int64]SNode, len(edges))
	deduped := make(map[int64]map[int64]bool, len(edges))

	for n, succs := range edges {
		idmap[n] = SNode{id: n, Function: nodeFn[n]}
		set := make(map[int64]bool, len(succs))
		for _, s := range succs {
			set[s] = true
			if _, ok := idmap[s]; !ok {
				idmap[s] = SNode{id: s, Function: nodeFn[s]}
			}
		}
		deduped[n] = set
	}

	keys := make([]int64, 0, len(idmap))
	for k := range idmap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return SGraph{order: len(idmap), IDMap: idmap, Keys: keys, Edges: deduped}
}

// Subgraph returns the restriction of original to the nodes in include;
// only edges with both endpoints in include survive.
func Subgraph(original SGraph, include []int64) SGraph {
	idmap := make(map[int64]SNode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
	}
	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return SGraph{order: original.Order(), IDMap: idmap, Edges: edges, Keys: keys}
}

// Order implements yourbasic/graph's Iterator.
func (g SGraph) Order() int { return g.order }

// Visit implements yourbasic/graph's Iterator, needed by
// graph.StrongComponents in cycles.go.
func (g SGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := g.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range g.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// Node implements gonum's graph.Graph.
func (g SGraph) Node(v int64) graph.Node { return g.IDMap[v] }

// Nodes implements gonum's graph.Graph.
func (g SGraph) Nodes() graph.Nodes {
	ids := make([]int64, 0, len(g.IDMap))
	for k := range g.IDMap {
		ids = append(ids, k)
	}
	return &NodeSet{nodes: g.IDMap, ids: ids, cur: 0}
}

// From implements gonum's graph.Graph.
func (g SGraph) From(id int64) graph.Nodes {
	var ids []int64
	for out := range g.Edges[id] {
		ids = append(ids, out)
	}
	return &NodeSet{nodes: g.IDMap, ids: ids, cur: 0}
}

// HasEdgeBetween implements gonum's graph.Graph.
func (g SGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.Edges[xid][yid] || g.Edges[yid][xid]
}

// Edge implements gonum's graph.Graph.
func (g SGraph) Edge(uid, vid int64) graph.Edge {
	if g.Edges[uid][vid] {
		return SEdge{from: g.IDMap[uid], to: g.IDMap[vid]}
	}
	return nil
}

// NodeSet implements gonum's graph.Nodes, an iterator over a fixed set
// of node ids.
type NodeSet struct {
	nodes map[int64]SNode
	ids   []int64
	cur   int
}

// Next moves to the next node, reporting whether one exists. A fresh
// NodeSet already stands on its first element (mirrors the teacher's
// CGraph.Nodes iterator exactly).
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

func (ns *NodeSet) Len() int { return len(ns.ids) }

func (ns *NodeSet) Reset() { ns.cur = 0 }

func (ns *NodeSet) Node() graph.Node { return ns.nodes[ns.ids[ns.cur]] }

// SEdge implements gonum's graph.Edge.
type SEdge struct {
	from, to SNode
}

func (e SEdge) From() graph.Node { return e.from }
func (e SEdge) To() graph.Node   { return e.to }
func (e SEdge) ReversedEdge() graph.Edge {
	return SEdge{from: e.to, to: e.from}
}
