package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleTable(t *testing.T) {
	tbl := newHandleTable[string]()

	a := tbl.add("a")
	b := tbl.add("b")
	assert.NotZero(t, a, "handles are never null")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, tbl.len())

	v, ok := tbl.get(b)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = tbl.remove(a)
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	_, ok = tbl.get(a)
	assert.False(t, ok)
	_, ok = tbl.remove(a)
	assert.False(t, ok)

	c := tbl.add("c")
	assert.NotEqual(t, a, c, "handles are not reused")

	assert.ElementsMatch(t, []string{"b", "c"}, tbl.drain())
	assert.Zero(t, tbl.len())
}
