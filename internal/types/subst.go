package types

// Subst is the pair of substitution maps spec §4.5 describes: "one from
// type-variable names to Type, another from row-variable names to
// StackType". Applying a substitution to a compound type/stack recurses,
// substituting variables when their names are bound and leaving the
// remaining variable otherwise.
type Subst struct {
	Types map[string]Type
	Rows  map[string]StackType
}

// Empty returns a substitution that binds nothing.
func Empty() Subst {
	return Subst{Types: map[string]Type{}, Rows: map[string]StackType{}}
}

// BindType returns a copy of s extended with tv -> t.
func (s Subst) BindType(tv string, t Type) Subst {
	out := s.clone()
	out.Types[tv] = t
	return out
}

// BindRow returns a copy of s extended with rv -> st.
func (s Subst) BindRow(rv string, st StackType) Subst {
	out := s.clone()
	out.Rows[rv] = st
	return out
}

func (s Subst) clone() Subst {
	out := Subst{Types: make(map[string]Type, len(s.Types)+1), Rows: make(map[string]StackType, len(s.Rows)+1)}
	for k, v := range s.Types {
		out.Types[k] = v
	}
	for k, v := range s.Rows {
		out.Rows[k] = v
	}
	return out
}

// Compose combines s1 after s2: applying s1.Compose(s2) is equivalent to
// applying s2 then s1. Mirrors the teacher's Subst.Compose for the Types
// map and extends the same idea to Rows.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := Empty()
	for k, v := range s2.Types {
		out.Types[k] = v.Apply(s1)
	}
	for k, v := range s1.Types {
		if _, ok := out.Types[k]; !ok {
			out.Types[k] = v
		}
	}
	for k, v := range s2.Rows {
		out.Rows[k] = v.Apply(s1)
	}
	for k, v := range s1.Rows {
		if _, ok := out.Rows[k]; !ok {
			out.Rows[k] = v
		}
	}
	return out
}
