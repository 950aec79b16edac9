package utils

// collision marks a prefix shared by two or more IDs. It never appears in
// hex IDs, so it cannot be mistaken for a real claim.
const collision = ":"

// claimTable maps prefixes to the ID that claims them. Keys remember the
// order in which they were first claimed; reassigning a key keeps its place.
type claimTable struct {
	keys  []string
	owner map[string]string
}

func (c *claimTable) set(prefix, id string) {
	if _, ok := c.owner[prefix]; !ok {
		c.keys = append(c.keys, prefix)
	}
	c.owner[prefix] = id
}

// head returns the first n bytes of s, or all of s when it is shorter.
func head(s string, n int) string {
	if n > len(s) {
		return s
	}
	return s[:n]
}

// ShortestPrefixes maps every ID to the shortest leading substring that
// identifies it uniquely among ids. It runs in time linear in the total
// length of the IDs.
//
// When one ID is a leading substring of another, the shorter ID maps to
// its full text and the longer ID maps to one character past it.
func ShortestPrefixes(ids []string) map[string]string {
	claims := &claimTable{owner: make(map[string]string, len(ids))}
	hasEmpty := false

	for _, id := range ids {
		if id == "" {
			hasEmpty = true
			continue
		}
		n := len(id)

		// Find the first prefix that is free, or that is claimed by exactly
		// one other ID which will need deepening.
		var i int
		var prefix string
		for i = 1; i <= n; i++ {
			prefix = id[:i]
			cur, ok := claims.owner[prefix]
			if !ok || (cur != collision && prefix != cur) {
				break
			}
		}
		if i > n {
			i = n
		}

		other, taken := claims.owner[prefix]
		if !taken {
			claims.set(prefix, id)
			continue
		}

		// Deepen both IDs until they diverge.
		diverged := false
		for j := i; j <= n; j++ {
			if head(other, j) == id[:j] {
				claims.set(id[:j], collision)
				continue
			}
			claims.set(head(other, j), other)
			claims.set(id[:j], id)
			diverged = true
			break
		}
		if !diverged {
			claims.set(head(other, n+1), other)
			claims.set(id, id)
		}
	}

	// Invert; a later claim by the same ID replaces an earlier one.
	out := make(map[string]string, len(ids))
	for _, prefix := range claims.keys {
		out[claims.owner[prefix]] = prefix
	}
	delete(out, collision)
	if hasEmpty {
		out[""] = ""
	}
	return out
}
