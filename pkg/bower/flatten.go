package bower

// Flatten walks the dependency trees below roots depth-first and returns
// every package once, keyed by name. When two nodes share a name, the one
// visited last wins; the sequence keeps the position of the first visit.
//
// The walk uses an explicit stack, so deep trees do not grow the call stack,
// and every node is expanded at most once, so shared or cyclic nodes are safe.
func Flatten(roots []*Package) []*Package {
	var (
		order   []string
		byName  = make(map[string]*Package)
		visited = make(map[*Package]bool)
		stack   = make([]*Package, 0, len(roots))
	)

	push := func(pkgs []*Package) {
		for i := len(pkgs) - 1; i >= 0; i-- {
			if pkgs[i] != nil {
				stack = append(stack, pkgs[i])
			}
		}
	}

	push(roots)
	for len(stack) > 0 {
		pkg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := byName[pkg.Name]; !seen {
			order = append(order, pkg.Name)
		}
		byName[pkg.Name] = pkg

		if visited[pkg] {
			continue
		}
		visited[pkg] = true
		push(pkg.Dependencies)
	}

	out := make([]*Package, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}
