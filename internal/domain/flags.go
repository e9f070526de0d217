package domain

// Flags is an ordered set of string labels.
type Flags []string

func contains(items []string, value string) bool {
	for _, i := range items {
		if i == value {
			return true
		}
	}
	return false
}

func (f Flags) Has(flag string) bool {
	return contains(f, flag)
}

func (f Flags) Union(flags Flags) Flags {
	m := make(map[string]bool, len(f))
	for _, item := range f {
		m[item] = true
	}
	for _, item := range flags {
		if !m[item] {
			m[item] = true
			f = append(f, item)
		}
	}
	return f
}

func (f Flags) Clone() Flags {
	c := make(Flags, len(f))
	copy(c, f)
	return c
}

// Unique keeps the first occurrence of each value.
func Unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	res := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		res = append(res, v)
	}
	return res
}
