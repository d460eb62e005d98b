package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aglyzov/go-flat/critbit"
	"github.com/aglyzov/go-flat/flatmap"
	"github.com/aglyzov/go-flat/hybridmap"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	type (
		small = *flatmap.LinearMap[string, int]
		big   = *critbit.Map[int]
	)

	m := hybridmap.New(hybridmap.Config[string, int, small, big]{
		MaxSmallSize: 4,
		NewSmall:     func() small { return flatmap.NewInlineLinearMap[string, int](4) },
		NewBig:       critbit.NewMap[int],
		Transfer:     hybridmap.TransferReportLast[string, int, small, big],
	}, hybridmap.WithLogger(log), hybridmap.WithName("example"))

	for i, k := range []string{"c", "a1", "a2", "a3"} {
		m.Insert(k, i)
	}
	fmt.Printf("small: %v %v inlined: %v\n", m.UsingSmallMap(), m.SmallMap().Keys(), m.SmallMap().Inlined())

	m.Insert("a22", 4)
	m.Insert("bb", 5)
	fmt.Printf("small: %v %v\n", m.UsingSmallMap(), m.BigMap().Keys())

	m.BigMap().Iter("a", func(key string, val *int) bool {
		fmt.Printf("%s = %d\n", key, *val)
		return true
	})

	m.Clear()
	fmt.Printf("small: %v len=%d\n", m.UsingSmallMap(), m.Len())
}
