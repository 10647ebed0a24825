package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/terratensor/geopicker/internal/core/domain"
)

// HierarchyBuilder превращает плоский список сущностей в иерархию
// с предвычисленными наборами родственников (предки + потомки + сам узел).
type HierarchyBuilder struct {
	levels domain.Levels
}

func NewHierarchyBuilder(levels domain.Levels) *HierarchyBuilder {
	return &HierarchyBuilder{levels: levels}
}

// BuildResult содержит построенные элементы и все ошибки целостности.
// Ошибки не прерывают построение: проблемная сущность просто пропускается.
type BuildResult struct {
	Items       []domain.HierarchyItem
	Diagnostics []error
}

// CountByDepth returns the number of built items per depth.
func (r *BuildResult) CountByDepth() map[int]int {
	counts := make(map[int]int)
	for _, item := range r.Items {
		counts[item.Level]++
	}
	return counts
}

// rankedEntity is an entity with its resolved depth.
type rankedEntity struct {
	domain.Entity
	depth int
}

// node is one arena slot. chain holds ancestor slots from the root down to the parent.
type node struct {
	id       int64
	chain    []int
	children map[int64]int
	order    []int
}

type arena struct {
	nodes     []node
	roots     map[int64]int
	rootOrder []int
	placed    map[int64]int
}

func newArena(capacity int) *arena {
	return &arena{
		nodes:  make([]node, 0, capacity),
		roots:  make(map[int64]int),
		placed: make(map[int64]int, capacity),
	}
}

func (a *arena) add(id int64, chain []int) int {
	slot := len(a.nodes)
	a.nodes = append(a.nodes, node{
		id:       id,
		chain:    chain,
		children: make(map[int64]int),
	})
	a.placed[id] = slot
	return slot
}

func (a *arena) addRoot(id int64) {
	slot := a.add(id, nil)
	a.roots[id] = slot
	a.rootOrder = append(a.rootOrder, slot)
}

func (a *arena) addChild(parent int, id int64) {
	p := a.nodes[parent]
	chain := make([]int, len(p.chain)+1)
	copy(chain, p.chain)
	chain[len(p.chain)] = parent

	slot := a.add(id, chain)
	a.nodes[parent].children[id] = slot
	a.nodes[parent].order = append(a.nodes[parent].order, slot)
}

// descend follows ancestor ids from a root to the slot of the last id.
func (a *arena) descend(ids []int64) (int, bool) {
	slot, ok := a.roots[ids[0]]
	if !ok {
		return 0, false
	}
	for _, id := range ids[1:] {
		if slot, ok = a.nodes[slot].children[id]; !ok {
			return 0, false
		}
	}
	return slot, true
}

// relativeSet is one entry of the id → relatives map, kept in traversal order.
type relativeSet struct {
	id        int64
	relatives []int64
}

// relatives walks every root depth-first. Each node starts with its ancestor
// chain plus itself and is appended to the sets of all of its ancestors.
func (a *arena) relatives() []relativeSet {
	sets := make([][]int64, len(a.nodes))
	order := make([]int, 0, len(a.nodes))

	var walk func(slot int)
	walk = func(slot int) {
		n := a.nodes[slot]
		own := make([]int64, 0, len(n.chain)+1)
		for _, anc := range n.chain {
			own = append(own, a.nodes[anc].id)
			sets[anc] = append(sets[anc], n.id)
		}
		sets[slot] = append(own, n.id)
		order = append(order, slot)

		for _, child := range n.order {
			walk(child)
		}
	}

	for _, root := range a.rootOrder {
		walk(root)
	}

	out := make([]relativeSet, len(order))
	for i, slot := range order {
		out[i] = relativeSet{id: a.nodes[slot].id, relatives: sets[slot]}
	}
	return out
}

// Build строит иерархию. Порядок результата: обход в глубину от каждого корня
// в порядке вставки, а не порядок входных данных.
func (b *HierarchyBuilder) Build(entities []domain.Entity) *BuildResult {
	start := time.Now()
	result := &BuildResult{}
	report := func(err error) {
		log.Printf("Hierarchy integrity error: %v", err)
		result.Diagnostics = append(result.Diagnostics, err)
	}

	// Шаг 1: определяем глубину каждой сущности
	ranked := make([]rankedEntity, 0, len(entities))
	for _, e := range entities {
		depth, ok := b.levels.Depth(e.Level)
		if !ok {
			report(&domain.IntegrityError{
				EntityID: e.ID,
				Err:      fmt.Errorf("%w %q", domain.ErrUnknownLevel, e.Level),
			})
			continue
		}
		ranked = append(ranked, rankedEntity{Entity: e, depth: depth})
	}

	// Шаг 2: сортируем по уровню, родитель всегда обрабатывается раньше потомка
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].depth < ranked[j].depth
	})

	// Шаг 3: справочник id → сущность, первая встреченная побеждает
	lookup := make(map[int64]rankedEntity, len(ranked))
	for _, r := range ranked {
		if _, exists := lookup[r.ID]; !exists {
			lookup[r.ID] = r
		}
	}

	// Шаг 4: строим дерево сверху вниз
	tree := newArena(len(ranked))
	for _, r := range ranked {
		if err := b.place(tree, lookup, r); err != nil {
			report(err)
			continue
		}
		// Размещённая сущность становится эталонной для разрешения потомков
		lookup[r.ID] = r
	}

	// Шаг 5: наборы родственников и разворачивание в плоский список
	result.Items = b.flatten(tree.relatives(), lookup, report)

	log.Printf("Hierarchy built: %d items from %d entities, %d rejected in %v",
		len(result.Items), len(entities), len(result.Diagnostics), time.Since(start))

	return result
}

// place inserts one entity into the arena under its resolved parent.
func (b *HierarchyBuilder) place(tree *arena, lookup map[int64]rankedEntity, r rankedEntity) error {
	if r.depth == 1 {
		if _, exists := tree.placed[r.ID]; exists {
			return &domain.IntegrityError{EntityID: r.ID, Depth: r.depth, Err: domain.ErrDuplicateID}
		}
		tree.addRoot(r.ID)
		return nil
	}

	chain, err := b.ancestors(lookup, r)
	if err != nil {
		return err
	}

	parentID := chain[len(chain)-1]
	parent, ok := tree.descend(chain)
	if !ok {
		return &domain.IntegrityError{EntityID: r.ID, ParentID: parentID, Depth: r.depth, Err: domain.ErrParentNotPlaced}
	}

	if _, exists := tree.nodes[parent].children[r.ID]; exists {
		return &domain.IntegrityError{EntityID: r.ID, ParentID: parentID, Depth: r.depth, Err: domain.ErrDuplicateID}
	}
	if slot, exists := tree.placed[r.ID]; exists {
		return &domain.IntegrityError{
			EntityID: r.ID,
			ParentID: parentID,
			Depth:    r.depth,
			Err:      fmt.Errorf("%w (already placed at depth %d)", domain.ErrDuplicateID, len(tree.nodes[slot].chain)+1),
		}
	}

	tree.addChild(parent, r.ID)
	return nil
}

// ancestors walks the lookup table from r up to its root and returns the
// ancestor ids ordered root first.
func (b *HierarchyBuilder) ancestors(lookup map[int64]rankedEntity, r rankedEntity) ([]int64, error) {
	chain := make([]int64, r.depth-1)
	cur := r

	for hop := r.depth - 1; hop >= 1; hop-- {
		if cur.Parent == nil {
			return nil, &domain.IntegrityError{
				EntityID: r.ID,
				Depth:    r.depth,
				Err:      fmt.Errorf("%w: %d has no parent reference", domain.ErrMissingParent, cur.ID),
			}
		}

		parent, ok := lookup[*cur.Parent]
		if !ok {
			return nil, &domain.IntegrityError{EntityID: r.ID, ParentID: *cur.Parent, Depth: r.depth, Err: domain.ErrMissingParent}
		}
		if parent.depth != cur.depth-1 {
			return nil, &domain.IntegrityError{
				EntityID: r.ID,
				ParentID: parent.ID,
				Depth:    r.depth,
				Err:      fmt.Errorf("%w: %d is at depth %d, want %d", domain.ErrParentLevel, parent.ID, parent.depth, cur.depth-1),
			}
		}

		chain[hop-1] = parent.ID
		cur = parent
	}

	return chain, nil
}

// flatten turns relative sets into items. An id without an entity yields a
// sentinel item and a reported error.
func (b *HierarchyBuilder) flatten(sets []relativeSet, lookup map[int64]rankedEntity, report func(error)) []domain.HierarchyItem {
	items := make([]domain.HierarchyItem, 0, len(sets))

	for _, set := range sets {
		e, ok := lookup[set.id]
		if !ok {
			report(&domain.IntegrityError{EntityID: set.id, Depth: domain.SentinelDepth, Err: domain.ErrOrphanRelative})
			items = append(items, domain.HierarchyItem{
				Level:     domain.SentinelDepth,
				ID:        -1,
				Relatives: []int64{},
			})
			continue
		}

		items = append(items, domain.HierarchyItem{
			Level:     e.depth,
			Name:      e.Name,
			ID:        set.id,
			Relatives: set.relatives,
		})
	}

	return items
}

// diagnosticKinds is the order DiagnosticsByKind reports in.
var diagnosticKinds = []error{
	domain.ErrUnknownLevel,
	domain.ErrMissingParent,
	domain.ErrParentLevel,
	domain.ErrParentNotPlaced,
	domain.ErrDuplicateID,
	domain.ErrOrphanRelative,
}

// DiagnosticCount is the number of diagnostics of one kind.
type DiagnosticCount struct {
	Kind  error
	Count int
}

// DiagnosticKind returns the sentinel error diag wraps, or nil if it is not
// an integrity failure.
func DiagnosticKind(diag error) error {
	for _, kind := range diagnosticKinds {
		if errors.Is(diag, kind) {
			return kind
		}
	}
	return nil
}

// DiagnosticsByKind groups diagnostics by their sentinel error. Kinds with no
// occurrences are omitted; anything unrecognised is counted under a nil Kind.
func (r *BuildResult) DiagnosticsByKind() []DiagnosticCount {
	counts := make(map[error]int)
	for _, diag := range r.Diagnostics {
		counts[DiagnosticKind(diag)]++
	}

	var out []DiagnosticCount
	for _, kind := range diagnosticKinds {
		if n := counts[kind]; n > 0 {
			out = append(out, DiagnosticCount{Kind: kind, Count: n})
		}
	}
	if other := counts[nil]; other > 0 {
		out = append(out, DiagnosticCount{Count: other})
	}
	return out
}
