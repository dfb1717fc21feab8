package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	parts := []Part{
		{GroupID: NumericGroupID(3), GroupName: "Weight", Value: "250g"},
		{GroupID: NamedGroupID("color"), GroupName: "Color", Value: "Red"},
	}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, BuildKey(parts), BuildKey(parts))
		assert.Equal(t, "3:250g|color:Red", BuildKey(parts))
	})

	t.Run("order sensitive", func(t *testing.T) {
		reversed := []Part{parts[1], parts[0]}
		assert.NotEqual(t, BuildKey(parts), BuildKey(reversed))
	})

	t.Run("empty parts", func(t *testing.T) {
		assert.Equal(t, "", BuildKey(nil))
	})

	t.Run("separator characters are escaped", func(t *testing.T) {
		a := BuildKey([]Part{
			{GroupID: NamedGroupID("size"), Value: "a|b"},
			{GroupID: NamedGroupID("fit"), Value: "c"},
		})
		b := BuildKey([]Part{
			{GroupID: NamedGroupID("size"), Value: "a"},
			{GroupID: NamedGroupID("b:fit"), Value: "c"},
		})
		assert.NotEqual(t, a, b)
	})

	t.Run("percent itself is escaped", func(t *testing.T) {
		a := BuildKey([]Part{{GroupID: NamedGroupID("g"), Value: "%7C"}})
		b := BuildKey([]Part{{GroupID: NamedGroupID("g"), Value: "|"}})
		assert.NotEqual(t, a, b)
	})

	t.Run("no collisions across value space", func(t *testing.T) {
		values := []string{"a", "b", "a:b", "a|b", "a%b", "", ":", "|"}
		seen := map[string]string{}
		for _, gid := range []string{"1", "2", "color"} {
			for _, v := range values {
				key := BuildKey([]Part{{GroupID: ParseGroupID(gid), Value: v}})
				prev, dup := seen[key]
				assert.False(t, dup, "key %q built for both %q and %q", key, prev, gid+"/"+v)
				seen[key] = gid + "/" + v
			}
		}
	})
}
