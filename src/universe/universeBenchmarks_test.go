package universe

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

var sizes = [][2]uint32{{64, 64}, {DefWidth, DefHeight}, {256, 256}}

func Benchmark_Step(b *testing.B) {
	for _, s := range sizes {
		b.Run(fmt.Sprintf("%vx%v", s[0], s[1]), func(b *testing.B) {
			u := NewWithSize(s[0], s[1], rand.New(rand.NewPCG(1, 0)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				u.Step()
			}
		})
	}
}

func Benchmark_LiveNeighborCount(b *testing.B) {
	u := New(rand.New(rand.NewPCG(1, 0)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.LiveNeighborCount(uint32(i)%u.Height(), 0)
	}
}

func Benchmark_Reseed(b *testing.B) {
	u := New(rand.New(rand.NewPCG(1, 0)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Reseed()
	}
}
