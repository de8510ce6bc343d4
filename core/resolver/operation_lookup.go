package resolver

import "github.com/willibrandon/nuplan/core"

// OperationLookup is an ordered operation list with constant-time
// containment and removal by (action, package).
type OperationLookup struct {
	ops     []core.PackageOperation
	removed []bool
	index   map[operationKey][]int
}

// NewOperationLookup returns an empty lookup.
func NewOperationLookup() *OperationLookup {
	return &OperationLookup{index: make(map[operationKey][]int)}
}

// Add appends op.
func (l *OperationLookup) Add(op core.PackageOperation) {
	k := keyOf(op)
	l.index[k] = append(l.index[k], len(l.ops))
	l.ops = append(l.ops, op)
	l.removed = append(l.removed, false)
}

// Contains reports whether an operation of action on p is queued.
func (l *OperationLookup) Contains(p *core.Package, action core.PackageAction) bool {
	return len(l.index[operationKey{action: action, key: p.Key()}]) > 0
}

// Remove drops the earliest queued operation of action on p and reports
// whether one existed.
func (l *OperationLookup) Remove(p *core.Package, action core.PackageAction) bool {
	k := operationKey{action: action, key: p.Key()}
	positions := l.index[k]
	if len(positions) == 0 {
		return false
	}
	l.removed[positions[0]] = true
	if len(positions) == 1 {
		delete(l.index, k)
	} else {
		l.index[k] = positions[1:]
	}
	return true
}

// Packages returns the packages of every queued operation with action.
func (l *OperationLookup) Packages(action core.PackageAction) []*core.Package {
	var out []*core.Package
	for i, op := range l.ops {
		if !l.removed[i] && op.Action == action {
			out = append(out, op.Package)
		}
	}
	return out
}

// Operations returns the queued operations in insertion order.
func (l *OperationLookup) Operations() []core.PackageOperation {
	out := make([]core.PackageOperation, 0, len(l.ops))
	for i, op := range l.ops {
		if !l.removed[i] {
			out = append(out, op)
		}
	}
	return out
}
