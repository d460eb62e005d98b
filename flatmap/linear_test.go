package flatmap

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color uint8

const (
	red color = iota + 1
	green
	blue
)

// tag is a key whose equality, once hashes match, depends on one field.
type tag struct {
	ID   uint64
	Name string
}

func (t tag) EqualWhenHashEqual(other tag) bool {
	return t.ID == other.ID
}

func TestLinearMap_InsertionOrder(t *testing.T) {
	t.Parallel()

	m := NewLinearMap[string, int]()

	for i, k := range []string{"z", "a", "m", "a", "b"} {
		m.Insert(k, i)
	}

	assert.Equal(t, []string{"z", "a", "m", "b"}, m.Keys())
	assert.Equal(t, []int{0, 1, 2, 4}, m.Values())

	m.Erase("a")

	assert.Equal(t, []string{"z", "m", "b"}, m.Keys())
	assert.Equal(t, 1, m.Search("m"))
	assert.Equal(t, -1, m.Search("a"))

	m.Insert("a", 5)

	assert.Equal(t, "a", m.Back().Key)
	assert.Equal(t, "z", m.Front().Key)
}

func TestLinearMap_Policies(t *testing.T) {
	t.Parallel()

	for _, tcase := range []struct {
		Name   string
		Policy KeyPolicy[string]
	}{
		{"Default", DefaultKeyPolicy[string]()},
		{"Plain", PlainKeyPolicy[string]()},
		{"ConstantHash", KeyPolicy[string]{Hash: func(string) uint32 { return 7 }}},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			t.Parallel()

			var (
				faker = gofakeit.New(1234567890)
				m     = NewLinearMapPolicy[string, int](tcase.Policy)
				ref   = make(map[string]int)
			)

			for i := 0; i < 300; i++ {
				k := faker.Word()
				p, inserted := m.Insert(k, i)

				_, had := ref[k]
				require.Equal(t, !had, inserted, k)
				if !had {
					ref[k] = i
				}
				require.Equal(t, ref[k], *p)
			}

			require.Equal(t, len(ref), m.Len())

			for k, v := range ref {
				got, ok := m.Get(k)
				require.True(t, ok, k)
				require.Equal(t, v, got, k)
			}

			assert.False(t, m.Contains("no such word in the faker corpus"))
		})
	}
}

func TestLinearMap_EqualFold(t *testing.T) {
	t.Parallel()

	m := NewLinearMapPolicy(EqualFoldPolicy(), Entry[string, int]{"Content-Type", 1})

	_, inserted := m.Insert("content-type", 2)

	assert.False(t, inserted)
	assert.Equal(t, 1, *m.Find("CONTENT-TYPE"))
	assert.Equal(t, []string{"Content-Type"}, m.Keys())
}

func TestLinearMap_HashEqualer(t *testing.T) {
	t.Parallel()

	m := NewLinearMap[tag, string]()

	m.Insert(tag{1, "one"}, "a")
	m.Insert(tag{2, "two"}, "b")

	assert.Equal(t, "a", *m.Find(tag{1, "one"}))
	assert.Nil(t, m.Find(tag{1, "uno"}), "different hash")
	assert.Nil(t, m.Find(tag{3, "one"}))
}

func TestLinearMap_Merge(t *testing.T) {
	t.Parallel()

	t.Run("Splice", func(t *testing.T) {
		t.Parallel()

		dst := NewLinearMap(
			Entry[string, int]{"b", 1},
			Entry[string, int]{"d", 1},
		)
		src := NewLinearMap(
			Entry[string, int]{"e", 2},
			Entry[string, int]{"b", 2},
			Entry[string, int]{"a", 2},
		)

		dst.Merge(src)

		assert.Equal(t, []string{"b", "d", "e", "a"}, dst.Keys())
		assert.Equal(t, []int{1, 1, 2, 2}, dst.Values())
		assert.Equal(t, []string{"b"}, src.Keys())
		assert.Equal(t, "e", dst.EntryAt(2).Key)
	})

	t.Run("IntoEmpty", func(t *testing.T) {
		t.Parallel()

		dst := NewLinearMap[string, int]()
		src := NewLinearMap(
			Entry[string, int]{"x", 1},
			Entry[string, int]{"y", 2},
		)

		dst.Merge(src)

		assert.Equal(t, []string{"x", "y"}, dst.Keys())
		assert.True(t, src.Empty())
		assert.Equal(t, 2, *dst.Find("y"))
	})

	t.Run("AssignExisting", func(t *testing.T) {
		t.Parallel()

		policy := DefaultKeyPolicy[string]().WithAssignExistingForMerge()

		dst := NewLinearMapPolicy(policy,
			Entry[string, int]{"b", 1},
			Entry[string, int]{"d", 1},
		)
		src := NewLinearMapPolicy(policy,
			Entry[string, int]{"e", 2},
			Entry[string, int]{"b", 2},
			Entry[string, int]{"a", 2},
		)

		dst.Merge(src)

		assert.Equal(t, []string{"b", "d", "e", "a"}, dst.Keys())
		assert.Equal(t, []int{2, 1, 2, 2}, dst.Values())
		assert.Equal(t, []string{"e", "b", "a"}, src.Keys(), "source is left intact")
	})
}

func TestLinearMap_Equal(t *testing.T) {
	t.Parallel()

	eq := func(a, b int) bool { return a == b }

	a := NewLinearMap(Entry[int, int]{1, 10}, Entry[int, int]{2, 20})
	b := NewLinearMap(Entry[int, int]{2, 20}, Entry[int, int]{1, 10})

	assert.True(t, a.Equal(b, eq), "order is not semantic")

	*b.Find(1) = 11
	assert.False(t, a.Equal(b, eq))

	c := a.Clone()
	c.Insert(3, 30)
	assert.False(t, a.Equal(c, eq))

	c.Erase(3)
	assert.True(t, a.Equal(c, eq))

	a.Swap(c)
	assert.True(t, a.Equal(c, eq))
}

func TestLinearSet(t *testing.T) {
	t.Parallel()

	s := NewLinearSet(green, red, green, blue)

	assert.Equal(t, []color{green, red, blue}, s.Keys())

	pos, ok := s.Insert(red)
	assert.False(t, ok)
	assert.Equal(t, 1, pos)

	assert.Equal(t, 1, s.Erase(green))
	assert.Equal(t, red, s.Front())
	assert.Equal(t, blue, s.Back())

	other := NewLinearSet(blue, green)
	s.Merge(other)

	assert.Equal(t, []color{red, blue, green}, s.Keys())
	assert.Equal(t, []color{blue}, other.Keys())

	c := s.Clone()
	assert.True(t, s.Equal(c))

	c.EraseAt(0)
	assert.False(t, s.Equal(c))
}

func TestReducedHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0xff), ReducedHash(int8(-1)))
	assert.Equal(t, uint32(0xffff), ReducedHash(int16(-1)))
	assert.Equal(t, uint32(0xffffffff), ReducedHash(int32(-1)))
	assert.Equal(t, uint32(42), ReducedHash(uint32(42)))
	assert.Equal(t, uint32(3), ReducedHash(blue))
	assert.Equal(t, ReducedHash("abc"), ReducedHash("abc"))
	assert.NotEqual(t, ReducedHash("abc"), ReducedHash("abd"))
	assert.Equal(t, ReducedHash([2]uint64{1, 2}), ReducedHash([2]uint64{1, 2}))
	assert.Equal(t, ReducedHash(3.5), ReducedHash(3.5))

	assert.True(t, Reinterpretable[uint16]())
	assert.True(t, Reinterpretable[color]())
	assert.False(t, Reinterpretable[int64]())
	assert.False(t, Reinterpretable[string]())
}

func TestScan_Independence(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 3, 4, 5, 7, 8, 100} {
		n := n

		t.Run(fmt.Sprint(n), func(t *testing.T) {
			t.Parallel()

			var (
				faker   = gofakeit.New(int64(n) + 1)
				scalar  = NewLinearMap[string, int]()
				wide    = NewLinearMap[string, int]()
				present []string
			)

			scalar.SetWideScan(false)
			wide.SetWideScan(true)

			for len(present) < n {
				k := faker.LetterN(8)
				if _, ok := scalar.Insert(k, len(present)); ok {
					wide.Insert(k, len(present))
					present = append(present, k)
				}
			}

			for i, k := range present {
				require.Equal(t, i, scalar.Search(k), k)
				require.Equal(t, i, wide.Search(k), k)
			}
			for i := 0; i < 50; i++ {
				k := faker.LetterN(9)
				require.Equal(t, scalar.Search(k), wide.Search(k), k)
				require.Equal(t, -1, wide.Search(k), k)
			}
		})
	}
}

func TestScan_Collisions(t *testing.T) {
	t.Parallel()

	hashes := []uint32{5, 1, 5, 5, 2, 5, 5, 9, 5}

	for _, scan := range []scanFunc{scanScalar, scanWide} {
		for target := range hashes {
			got := scan(hashes, 5, func(i int) bool { return i == target })

			if hashes[target] == 5 {
				assert.Equal(t, target, got)
			} else {
				assert.Equal(t, -1, got)
			}
		}
		assert.Equal(t, -1, scan(hashes, 3, func(int) bool { return true }))
		assert.Equal(t, 7, scan(hashes, 9, func(int) bool { return true }))
		assert.Equal(t, -1, scan(nil, 0, func(int) bool { return true }))
	}
}

func TestConsecutiveKeyMap(t *testing.T) {
	t.Parallel()

	m := NewConsecutiveKeyMap[int16, string]()

	m.Insert(-1, "minus one")
	m.Insert(7, "seven")
	m.Insert(0, "zero")
	_, inserted := m.Insert(7, "SEVEN")

	assert.False(t, inserted)
	assert.Equal(t, []int16{-1, 7, 0}, m.Keys())
	assert.Equal(t, []string{"minus one", "seven", "zero"}, m.Values())
	assert.Equal(t, "minus one", *m.At(-1))
	assert.Nil(t, m.Find(1))

	k, v := m.Front()
	assert.Equal(t, int16(-1), k)
	assert.Equal(t, "minus one", *v)

	*m.Index(3) = "three"
	m.InsertOrAssign(7, "SEVEN")
	m.Erase(0)

	var got []string
	for k, v := range m.All() {
		got = append(got, fmt.Sprint(k, "=", *v))
	}
	assert.Equal(t, []string{"-1=minus one", "7=SEVEN", "3=three"}, got)

	other := NewConsecutiveKeyMap[int16, string]()
	other.Insert(3, "THREE")
	other.Insert(4, "four")

	m.Merge(other)

	assert.Equal(t, []int16{-1, 7, 3, 4}, m.Keys())
	assert.Equal(t, []int16{3}, other.Keys())

	c := m.Clone()
	assert.True(t, m.Equal(c, func(a, b string) bool { return a == b }))

	requireAssertion(t, func() { NewConsecutiveKeyMap[int64, string]() })
	requireAssertion(t, func() { m.EntryAt(4) })
}

func TestInlineLinearMap(t *testing.T) {
	t.Parallel()

	m := NewInlineLinearMap[string, int](3)

	require.True(t, m.Inlined())
	assert.Equal(t, 3, m.t.elems.Cap())
	assert.True(t, m.t.hashes.IsStaticBuffer(), "the hash column is inline too")

	m.Insert("a", 0)
	first := m.Front()

	m.Insert("b", 1)
	m.Insert("c", 2)

	assert.True(t, m.Inlined())
	assert.Same(t, first, m.Front())
	assert.Equal(t, 0, m.t.elems.Reallocs())

	m.Insert("d", 3)

	assert.False(t, m.Inlined())
	assert.False(t, m.t.hashes.IsStaticBuffer())
	assert.Equal(t, []string{"a", "b", "c", "d"}, m.Keys())
	assert.Equal(t, 2, *m.Find("c"))

	m.ClearAndShrink()

	assert.True(t, m.Inlined())
	m.Insert("z", 9)
	assert.Same(t, first, m.Front(), "back in the inline buffer")

	t.Run("Clone", func(t *testing.T) {
		t.Parallel()

		src := NewInlineLinearMap(2, Entry[string, int]{"x", 1})
		dup := src.Clone()

		assert.True(t, dup.Inlined())
		assert.NotSame(t, src.Front(), dup.Front())
		assert.True(t, src.Equal(dup, func(a, b int) bool { return a == b }))
	})

	t.Run("Merge", func(t *testing.T) {
		t.Parallel()

		dst := NewInlineLinearMap[string, int](4)
		src := NewInlineLinearMap(2, Entry[string, int]{"x", 1}, Entry[string, int]{"y", 2})

		dst.Merge(src)

		assert.True(t, dst.Inlined())
		assert.True(t, src.Inlined())
		assert.True(t, src.Empty())
		assert.Equal(t, []string{"x", "y"}, dst.Keys())
		assert.Equal(t, 2, *dst.Find("y"))
	})

	t.Run("Negative", func(t *testing.T) {
		t.Parallel()

		requireAssertion(t, func() { NewInlineLinearMap[string, int](-1) })
	})
}

func TestInlineLinearSet(t *testing.T) {
	t.Parallel()

	s := NewInlineLinearSet(2, red, green)

	assert.True(t, s.Inlined())
	assert.False(t, NewLinearSet(red).Inlined(), "plain sets have no inline buffer")

	s.Insert(green)
	assert.True(t, s.Inlined())

	s.Insert(blue)

	assert.False(t, s.Inlined())
	assert.Equal(t, []color{red, green, blue}, s.Keys())
}
