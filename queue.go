package threadpool

const minQueueCapacity = 16

// taskQueue is an unbounded FIFO ring buffer of pending tasks.
// It is not safe for concurrent use; the pool guards it with its mutex.
type taskQueue struct {
	buf  []Task
	head int
	n    int
}

func (q *taskQueue) len() int { return q.n }

func (q *taskQueue) pushBack(t Task) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = t
	q.n++
}

func (q *taskQueue) popFront() (Task, bool) {
	if q.n == 0 {
		return nil, false
	}
	t := q.buf[q.head]
	q.buf[q.head] = nil
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return t, true
}

// popBack undoes the most recent pushBack.
func (q *taskQueue) popBack() (Task, bool) {
	if q.n == 0 {
		return nil, false
	}
	i := (q.head + q.n - 1) % len(q.buf)
	t := q.buf[i]
	q.buf[i] = nil
	q.n--
	return t, true
}

// clear drops every pending task and returns how many were dropped.
func (q *taskQueue) clear() int {
	n := q.n
	q.buf = nil
	q.head = 0
	q.n = 0
	return n
}

func (q *taskQueue) grow() {
	size := 2 * len(q.buf)
	if size < minQueueCapacity {
		size = minQueueCapacity
	}
	buf := make([]Task, size)
	for i := 0; i < q.n; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
