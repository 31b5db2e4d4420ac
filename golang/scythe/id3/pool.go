package id3

import "sync"

//PoolTask is a unit of work executed by a Pool.
type PoolTask interface {
	Execute()
}

//Pool runs tasks on a fixed number of goroutines.
type Pool struct {
	tasks chan PoolTask
	wg    sync.WaitGroup
}

//NewPool starts threadsNum workers.
func NewPool(threadsNum int) *Pool {
	if threadsNum < 1 {
		threadsNum = 1
	}
	pool := &Pool{tasks: make(chan PoolTask, threadsNum)}
	pool.wg.Add(threadsNum)
	for w := 0; w < threadsNum; w++ {
		go func() {
			defer pool.wg.Done()
			for task := range pool.tasks {
				task.Execute()
			}
		}()
	}
	return pool
}

//AddTask queues a task, blocking while all workers are busy.
func (pool *Pool) AddTask(task PoolTask) {
	pool.tasks <- task
}

//Close signals that no more tasks will be added.
func (pool *Pool) Close() {
	close(pool.tasks)
}

//WaitAll blocks until every queued task has run.
func (pool *Pool) WaitAll() {
	pool.wg.Wait()
}

//TaskFindBestSplit evaluates one feature and stores the result in its own slot.
type TaskFindBestSplit struct {
	result    []FeatureSplit
	feature   int
	splitFunc func(int) FeatureSplit
}

func (task *TaskFindBestSplit) Execute() {
	task.result[task.feature] = task.splitFunc(task.feature)
}
