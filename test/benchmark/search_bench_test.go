package benchmark

import (
	"fmt"
	"testing"

	"github.com/keren-or1/inverted-index/internal/search"
)

// BenchmarkProcessQuery measures end-to-end postfix evaluation at several
// collection sizes.
func BenchmarkProcessQuery(b *testing.B) {
	queries := map[string]string{
		"term":   "deal",
		"and":    "iran deal AND",
		"or":     "iran israel OR",
		"not":    "deal iran NOT",
		"nested": "iran israel OR deal AND sanctions OR",
		"miss":   "absent iran AND",
	}
	for _, size := range []int{1000, 10000, 50000} {
		ix := buildCorpus(b, size)
		ev := search.NewEvaluator(ix)
		for name, query := range queries {
			b.Run(fmt.Sprintf("%s/docs=%d", name, size), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := ev.ProcessQuery(query); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

// BenchmarkProcessQueryParallel measures concurrent read throughput, the
// shape of load the HTTP search endpoint sees.
func BenchmarkProcessQueryParallel(b *testing.B) {
	ix := buildCorpus(b, 10000)
	ev := search.NewEvaluator(ix)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := ev.ProcessQuery("iran israel OR deal AND"); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkIntersect measures the two-pointer intersection on large lists.
func BenchmarkIntersect(b *testing.B) {
	a := make([]int, 0, 50000)
	c := make([]int, 0, 50000)
	for i := 0; i < 100000; i++ {
		if i%2 == 0 {
			a = append(a, i)
		}
		if i%3 == 0 {
			c = append(c, i)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out := search.Intersect(a, c)
		_ = out
	}
}

// BenchmarkUnion measures the two-pointer union on large lists.
func BenchmarkUnion(b *testing.B) {
	a := make([]int, 0, 50000)
	c := make([]int, 0, 50000)
	for i := 0; i < 100000; i++ {
		if i%2 == 0 {
			a = append(a, i)
		}
		if i%3 == 0 {
			c = append(c, i)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out := search.Union(a, c)
		_ = out
	}
}

// BenchmarkComplement measures negation against a 100 000 document universe.
func BenchmarkComplement(b *testing.B) {
	a := make([]int, 0, 50000)
	for i := 0; i < 100000; i += 2 {
		a = append(a, i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out := search.Complement(a, 100000)
		_ = out
	}
}
