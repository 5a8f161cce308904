package ir

import "github.com/dolthub/swiss"

// idTable backs StringPool's dedup lookup the same way sema's nameTable
// backs Scope name lookup: a swiss.Map keyed on the literal's raw bytes.
type idTable struct {
	m *swiss.Map[string, int32]
}

func newIDTable() *idTable {
	return &idTable{m: swiss.NewMap[string, int32](8)}
}

func (t *idTable) get(s string) (int32, bool) { return t.m.Get(s) }
func (t *idTable) put(s string, id int32)     { t.m.Put(s, id) }
