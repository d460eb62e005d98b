package hybridmap

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/aglyzov/go-flat/flatmap"
)

func BenchmarkGoMap_Build(b *testing.B) {
	for _, n := range []int{4, 16, 256} {
		keys := getKeys(n)

		b.Run(fmt.Sprint(n), func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				m := make(map[string]int)
				for j, k := range keys {
					m[k] = j
				}
			}
		})
	}
}

func BenchmarkHybridMap_Build(b *testing.B) {
	for _, n := range []int{4, 16, 256} {
		keys := getKeys(n)
		cfg := Config[string, int, *flatmap.LinearMap[string, int], *SwissMap[string, int]]{
			MaxSmallSize: 8,
			NewSmall:     func() *flatmap.LinearMap[string, int] { return flatmap.NewLinearMap[string, int]() },
			NewBig:       func() *SwissMap[string, int] { return NewSwissMap[string, int](0) },
		}

		b.Run(fmt.Sprint(n), func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				m := New(cfg)
				for j, k := range keys {
					m.Insert(k, j)
				}
			}
		})
	}
}

func BenchmarkHybridMap_Get(b *testing.B) {
	for _, n := range []int{4, 16, 256} {
		keys := getKeys(n)
		m := New(testConfig(8))
		for j, k := range keys {
			m.Insert(k, j)
		}

		b.Run(fmt.Sprint(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = m.Find(keys[i%n])
			}
		})
	}
}

func getKeys(total int) []string {
	const seed = 1234567890

	var (
		faker = gofakeit.New(seed)
		keys  = make([]string, total)
	)

	for i := range keys {
		keys[i] = faker.Sentence(3)
	}

	return keys
}
