package subject

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/classhub/core/i18n"
)

func TestSeed_isFreshCopy(t *testing.T) {
	s1 := Seed()
	s1[0].Name[i18n.English] = "changed"
	s1[0].Color = "bg-black"

	s2 := Seed()
	assert.Equal(t, "Mathematics SM", s2[0].Name[i18n.English])
	assert.Equal(t, "bg-blue-600", s2[0].Color)
	assert.Len(t, s2, 9)
}

func TestSubject_NameIn(t *testing.T) {
	math, ok := Find(Seed(), "math")
	assert.True(t, ok)
	assert.Equal(t, "Mathématiques SM", math.NameIn(i18n.French))
	assert.Equal(t, "Mathematics SM", math.NameIn(i18n.Language("de")))

	_, ok = Find(Seed(), "latin")
	assert.False(t, ok)

	assert.Equal(t, "x", Subject{ID: "x"}.NameIn(i18n.English))
}
