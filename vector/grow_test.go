package vector

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCapacity(t *testing.T) {
	t.Parallel()

	for _, tcase := range []struct {
		Old, Want int
		Width     uintptr
		Exp       int
	}{
		{0, 0, 1, 32},
		{0, 0, 4, 8},
		{0, 0, 8, 4},
		{0, 0, 12, 2},
		{0, 0, 16, 2},
		{0, 0, 47, 2},
		{0, 0, 48, 1},
		{0, 0, 1000, 1},
		{4, 0, 8, 8},
		{1, 0, 64, 2},
		{0, 10, 8, 10},
		{16, 3, 8, 3},
		{MaxCapacity/2 + 1, 0, 1, MaxCapacity},
	} {
		tcase := tcase

		t.Run(fmt.Sprint(tcase.Old, tcase.Want, tcase.Width), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tcase.Exp, nextCapacity(tcase.Old, tcase.Want, tcase.Width))
		})
	}
}

func TestGrowthPolicy(t *testing.T) {
	t.Parallel()

	var (
		small Vector[byte]
		mid   Vector[[2]int64]
		large Vector[[8]int64]
		empty Vector[struct{}]
	)

	small.PushBack(1)
	mid.PushBack([2]int64{})
	large.PushBack([8]int64{})
	empty.PushBack(struct{}{})

	assert.Equal(t, 32, small.Cap())
	assert.Equal(t, 2, mid.Cap())
	assert.Equal(t, 1, large.Cap())
	assert.Equal(t, 32, empty.Cap())

	for i := 0; i < 32; i++ {
		small.PushBack(byte(i))
	}

	assert.Equal(t, 64, small.Cap())
	assert.Equal(t, 1, small.Reallocs())

	small.Append(make([]byte, 200)...)

	assert.Equal(t, 233, small.Cap(), "demanded size wins over doubling")
	assert.Equal(t, 2, small.Reallocs())
}

func TestReserve(t *testing.T) {
	t.Parallel()

	var v Vector[int]

	require.NoError(t, v.Reserve(100))
	assert.Equal(t, 100, v.Cap())
	assert.Equal(t, 0, v.Reallocs(), "first allocation is not a re-allocation")

	v.Append(1, 2, 3)

	require.NoError(t, v.Reserve(200))
	require.Equal(t, 1, v.Reallocs())

	require.NoError(t, v.Reserve(200))
	require.NoError(t, v.Reserve(150))
	require.NoError(t, v.Reserve(0))

	assert.Equal(t, 1, v.Reallocs())
	assert.Equal(t, 200, v.Cap())
	assert.Equal(t, []int{1, 2, 3}, v.Data())
}

func TestReserve_Overflow(t *testing.T) {
	t.Parallel()

	v := New(1, 2)
	cp := v.Cap()

	err := v.Reserve(MaxCapacity + 1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityOverflow))
	assert.Equal(t, []int{1, 2}, v.Data())
	assert.Equal(t, cp, v.Cap())
	assert.Equal(t, 0, v.Reallocs())
}

func TestLenCapInvariant(t *testing.T) {
	t.Parallel()

	var v Vector[int32]

	for i := 0; i < 500; i++ {
		switch i % 7 {
		case 3:
			v.Insert(v.Len()/2, int32(i))
		case 5:
			v.Erase(0)
		case 6:
			v.ShrinkToFit()
		default:
			v.PushBack(int32(i))
		}
		require.LessOrEqual(t, v.Len(), v.Cap())

		n := 0
		for range v.All() {
			n++
		}
		require.Equal(t, v.Len(), n)
	}
}

func TestShrinkToFit(t *testing.T) {
	t.Parallel()

	v := New(1, 2, 3)
	require.NoError(t, v.Reserve(64))

	v.ShrinkToFit()
	assert.Equal(t, 3, v.Cap())
	assert.Equal(t, []int{1, 2, 3}, v.Data())

	v.ShrinkToFit()
	assert.Equal(t, 3, v.Cap())

	v.Clear()
	v.ShrinkToFit()
	assert.Equal(t, 0, v.Cap())

	v.PushBack(4)
	assert.Equal(t, []int{4}, v.Data())
}

func TestClearAndShrink(t *testing.T) {
	t.Parallel()

	v := New("a", "b")
	v.ClearAndShrink()

	assert.True(t, v.Empty())
	assert.Equal(t, 0, v.Cap())
	assert.Nil(t, v.memory)
}
