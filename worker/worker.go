package worker

type Worker struct {
	id int
}

func (w *Worker) Run(queue chan Job) {
	for job := range queue {
		job()
	}
}
