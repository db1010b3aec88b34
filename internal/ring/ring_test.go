package ring_test

import (
	"testing"

	"github.com/phantty/phantty/internal/ring"
)

func TestBuffer(t *testing.T) {

	b := ring.NewBuffer[byte](4)
	b.Append('a', 'b', 'c', 'd')
	CheckArr(t, []byte{'a', 'b', 'c', 'd'}, b.Data)

	v1, v2 := b.Views()
	CheckArr(t, []byte{'a', 'b', 'c', 'd'}, v1)
	CheckArr(t, nil, v2)

	b.Append('e', 'f')
	CheckArr(t, []byte{'c', 'd', 'e', 'f'}, b.ToSlice())

	b.Append('g')
	CheckArr(t, []byte{'d', 'e', 'f', 'g'}, b.ToSlice())
}

func TestBufferLast(t *testing.T) {

	b := ring.NewBuffer[float32](3)
	b.Append(1, 2)
	CheckArr(t, []float32{1, 2}, b.Last(5))

	b.Append(3, 4)
	CheckArr(t, []float32{3, 4}, b.Last(2))
	CheckArr(t, []float32{2, 3, 4}, b.Last(10))
}

func CheckArr[T comparable](t *testing.T, expected, got []T) {

	if len(expected) != len(got) {
		t.Fatalf("Expected %v but got %v\n", expected, got)
	}

	for i := range expected {
		if expected[i] != got[i] {
			t.Fatalf("Expected %v but got %v\n", expected, got)
		}
	}
}
