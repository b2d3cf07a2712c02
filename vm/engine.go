package vm

import (
	"sync"

	"github.com/brexlang/brex/node"
	"github.com/brexlang/brex/opcode"
	"github.com/brexlang/brex/search"
	"github.com/brexlang/brex/stringset"
)

// Engine is a compiled, immutable driver for one Pattern (spec §3.1
// "Engine"), analogous to the teacher's meta.Engine: built once from a
// node.Pattern, then reused concurrently across many searches via a pooled
// State. Lazily-built fast-search and string-set tables live here, on the
// Engine, rather than on the shared Pattern, so building them needs only a
// mutex on this struct instead of threading one into package node.
type Engine struct {
	Pattern *node.Pattern
	Config  Config
	Stats   *Stats

	pool *statePool

	tablesMu sync.Mutex
	tables   map[node.ID]*search.Table

	setsMu sync.Mutex
	sets   map[int]*stringset.Matcher

	// reqTable is the required-string prefilter (spec §4.8), built eagerly
	// at construction since there is at most one per pattern.
	reqTable *search.Table
}

// NewEngine builds an Engine for p under cfg.
func NewEngine(p *node.Pattern, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		Pattern: p,
		Config:  cfg,
		Stats:   &Stats{},
		pool:    newStatePool(p.TrueGroupCount, p.RepeatCount, p.FuzzyCount),
		tables:  make(map[node.ID]*search.Table),
		sets:    make(map[int]*stringset.Matcher),
	}
	if n := p.Node(p.ReqStringNode); n != nil && n.StringIndex >= 0 && n.StringIndex < len(p.Strings) {
		fold := n.Op == opcode.OpStringFld
		e.reqTable = search.Build([]rune(p.Strings[n.StringIndex]), false, fold, p.Encoding)
	}
	return e, nil
}

// tableFor returns the cached Boyer-Moore table for a literal STRING/
// STRING_FLD node, building and caching it on first use (spec §4.7,
// gated by node.StatusFastInit so repeated calls from concurrent
// searches don't rebuild it).
func (e *Engine) tableFor(id node.ID, n *node.Node) *search.Table {
	if n.StringIndex < 0 || n.StringIndex >= len(e.Pattern.Strings) || len(e.Pattern.Strings[n.StringIndex]) < search.MinFastLength {
		return nil
	}
	e.tablesMu.Lock()
	defer e.tablesMu.Unlock()
	if t, ok := e.tables[id]; ok {
		return t
	}
	fold := n.Op == opcode.OpStringFld
	reverse := n.Step < 0
	t := search.Build([]rune(e.Pattern.Strings[n.StringIndex]), reverse, fold, e.Pattern.Encoding)
	e.tables[id] = t
	n.SetStatus(node.StatusFastInit)
	return t
}

// stringSetFor returns the cached stringset.Matcher for a STRING_SET*
// node's named list, building it on first use from Pattern.NamedLists via
// the list name recorded at NamedListOrder[idx] (spec §4.9).
func (e *Engine) stringSetFor(idx int) (*stringset.Matcher, error) {
	e.setsMu.Lock()
	defer e.setsMu.Unlock()
	if m, ok := e.sets[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(e.Pattern.NamedListOrder) {
		return nil, nil
	}
	name := e.Pattern.NamedListOrder[idx]
	members := e.Pattern.NamedLists[name]
	m, err := stringset.Build(members)
	if err != nil {
		return nil, err
	}
	e.sets[idx] = m
	return m, nil
}

// Get/Put expose the engine's State pool to the root package's scanner/
// splitter callers that need to retain a State across successive calls
// (spec §3.3).
func (e *Engine) Get() *State  { return e.pool.get() }
func (e *Engine) Put(s *State) { e.pool.put(s) }
