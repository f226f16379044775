package alg

// Stack and Queue hold token indices. The parse configuration owns one of
// each and copies them when it is forked.

type Index interface {
	Index(int) (int, bool)
}

type Stack interface {
	Index
	Push(int)
	Pop() (int, bool)
	Peek() (int, bool)
	Size() int
	// Values returns the elements from top to bottom
	Values() []int

	Copy() Stack
	Equal(Stack) bool
}

type Queue interface {
	Index
	Push(int)
	Enqueue(int)
	Dequeue() (int, bool)
	Peek() (int, bool)
	Size() int
	// Values returns the elements from front to back
	Values() []int

	Copy() Queue
	Equal(Queue) bool
}

type StackArray struct {
	Array []int
}

var _ Stack = &StackArray{}

func (s *StackArray) Equal(other Stack) bool {
	if s.Size() != other.Size() {
		return false
	}
	for i := 0; i < s.Size(); i++ {
		a, _ := s.Index(i)
		b, _ := other.Index(i)
		if a != b {
			return false
		}
	}
	return true
}

func (s *StackArray) Push(val int) {
	s.Array = append(s.Array, val)
}

func (s *StackArray) Pop() (int, bool) {
	if s.Size() == 0 {
		return 0, false
	}
	retval := s.Array[len(s.Array)-1]
	s.Array = s.Array[:len(s.Array)-1]
	return retval, true
}

func (s *StackArray) Index(index int) (int, bool) {
	if index < 0 || index >= s.Size() {
		return 0, false
	}
	return s.Array[len(s.Array)-1-index], true
}

func (s *StackArray) Peek() (int, bool) {
	return s.Index(0)
}

func (s *StackArray) Size() int {
	return len(s.Array)
}

func (s *StackArray) Values() []int {
	retval := make([]int, len(s.Array))
	for i, val := range s.Array {
		retval[len(s.Array)-1-i] = val
	}
	return retval
}

func (s *StackArray) Copy() Stack {
	newArray := make([]int, len(s.Array), cap(s.Array))
	copy(newArray, s.Array)
	return &StackArray{newArray}
}

func NewStackArray(size int) *StackArray {
	return &StackArray{make([]int, 0, size)}
}

// QueueSlice is a double ended queue; Push prepends to the front.
type QueueSlice struct {
	slice []int
}

var _ Queue = &QueueSlice{}

func (q *QueueSlice) Equal(other Queue) bool {
	if q.Size() != other.Size() {
		return false
	}
	for i, val := range q.slice {
		if o, _ := other.Index(i); o != val {
			return false
		}
	}
	return true
}

func (q *QueueSlice) Enqueue(val int) {
	q.slice = append(q.slice, val)
}

func (q *QueueSlice) Dequeue() (int, bool) {
	if q.Size() == 0 {
		return 0, false
	}
	retval := q.slice[0]
	q.slice = q.slice[1:]
	return retval, true
}

func (q *QueueSlice) Index(index int) (int, bool) {
	if index < 0 || index >= q.Size() {
		return 0, false
	}
	return q.slice[index], true
}

func (q *QueueSlice) Peek() (int, bool) {
	return q.Index(0)
}

func (q *QueueSlice) Push(val int) {
	oldSlice := q.slice
	q.slice = make([]int, 1+len(oldSlice), 1+cap(oldSlice))
	q.slice[0] = val
	copy(q.slice[1:], oldSlice)
}

func (q *QueueSlice) Size() int {
	return len(q.slice)
}

func (q *QueueSlice) Values() []int {
	retval := make([]int, len(q.slice))
	copy(retval, q.slice)
	return retval
}

func (q *QueueSlice) Copy() Queue {
	newSlice := make([]int, len(q.slice), cap(q.slice))
	copy(newSlice, q.slice)
	return &QueueSlice{newSlice}
}

func NewQueueSlice(size int) *QueueSlice {
	return &QueueSlice{make([]int, 0, size)}
}
