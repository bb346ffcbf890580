package services

// tabuList is a fixed-capacity FIFO of recently visited delivery indexes.
// Pushing onto a full list evicts the oldest entry.
type tabuList struct {
	buf  []int
	head int
	size int
}

func newTabuList(capacity int) *tabuList {
	return &tabuList{buf: make([]int, capacity)}
}

func (t *tabuList) Push(idx int) {
	if len(t.buf) == 0 {
		return
	}
	t.buf[(t.head+t.size)%len(t.buf)] = idx
	if t.size < len(t.buf) {
		t.size++
		return
	}
	t.head = (t.head + 1) % len(t.buf)
}

func (t *tabuList) Contains(idx int) bool {
	for i := 0; i < t.size; i++ {
		if t.buf[(t.head+i)%len(t.buf)] == idx {
			return true
		}
	}
	return false
}

func (t *tabuList) Len() int { return t.size }
