package resolver

import "github.com/willibrandon/nuplan/core"

type operationKey struct {
	action core.PackageAction
	key    core.PackageKey
}

func keyOf(op core.PackageOperation) operationKey {
	return operationKey{action: op.Action, key: op.Key()}
}

// Reduce cancels matching Install/Uninstall pairs of the same package.
//
// Each operation is paired with the earliest surviving operation of the
// opposite action on the same package; both are dropped. Operations left
// unpaired keep their relative order. For a package with n installs and m
// uninstalls the result holds max(n-m, 0) installs and max(m-n, 0)
// uninstalls, so Reduce(Reduce(ops)) equals Reduce(ops).
func Reduce(ops []core.PackageOperation) []core.PackageOperation {
	pending := make(map[operationKey][]int)
	cancelled := make([]bool, len(ops))

	for i, op := range ops {
		opposite := operationKey{action: op.Action.Opposite(), key: op.Key()}
		if queue := pending[opposite]; len(queue) > 0 {
			cancelled[queue[0]] = true
			cancelled[i] = true
			pending[opposite] = queue[1:]
			continue
		}
		k := keyOf(op)
		pending[k] = append(pending[k], i)
	}

	out := make([]core.PackageOperation, 0, len(ops))
	for i, op := range ops {
		if !cancelled[i] {
			out = append(out, op)
		}
	}
	return out
}
