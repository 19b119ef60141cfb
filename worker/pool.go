package worker

// Job is one unit of background work, typically a single document fetch.
type Job func()

type Pool struct {
	queue chan Job
}

func (p *Pool) Push(jobs ...Job) {
	for _, job := range jobs {
		p.queue <- job
	}
}

// NewPool creates a pool of background fetch workers.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	pool := &Pool{
		queue: make(chan Job),
	}

	for i := 0; i < size; i++ {
		worker := &Worker{id: i}
		go worker.Run(pool.queue)
	}
	return pool
}
