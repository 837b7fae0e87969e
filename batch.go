/*
 * batch.go, part of pbfev.
 *
 * Copyright 2024 The pbfev authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package pbfev

import "fmt"

// Task is one structure to be processed by Batch, together with the
// services that provide its scaffold and exit pairs.
type Task struct {
	Name       string
	Mol        *Molecule
	Scaffolder ScaffoldService
	Matcher    PatternMatchService
}

// TaskResult contains the result of a Task, or the error that prevented it.
// Index is the position of the task in the slice given to Batch.
type TaskResult struct {
	Name  string
	Index int
	*Result
	Err error
}

// Batch runs ExitVectorAngles for each task, using o.Cpus() goroutines.
// The results are returned in the same order as the tasks. An error in one
// task doesn't affect the others.
func Batch(tasks []*Task, o *Options) []*TaskResult {
	if o == nil {
		o = DefaultOptions()
	}
	cpus := o.Cpus()
	if cpus < 1 {
		cpus = 1
	}
	if cpus > len(tasks) {
		cpus = len(tasks)
	}
	jobs := make(chan int)
	results := make(chan *TaskResult)
	for i := 0; i < cpus; i++ {
		go batchWorker(tasks, jobs, results, o)
	}
	go func() {
		for i := range tasks {
			jobs <- i
		}
		close(jobs)
	}()
	ret := make([]*TaskResult, len(tasks))
	for range tasks {
		r := <-results
		ret[r.Index] = r
	}
	return ret
}

func batchWorker(tasks []*Task, jobs <-chan int, results chan<- *TaskResult, o *Options) {
	for i := range jobs {
		results <- runTask(tasks[i], i, o)
	}
}

// runTask turns panics in the collaborators into errors for that task only.
func runTask(t *Task, index int, o *Options) (tr *TaskResult) {
	tr = &TaskResult{Index: index}
	if t == nil {
		tr.Err = newError(fmt.Sprintf("nil task %d", index), true)
		return tr
	}
	tr.Name = t.Name
	defer func() {
		if r := recover(); r != nil {
			err := newError(fmt.Sprintf("task %q panicked: %v", t.Name, r), true)
			err.Decorate("Batch")
			tr.Result = nil
			tr.Err = err
		}
	}()
	tr.Result, tr.Err = ExitVectorAngles(t.Mol, t.Scaffolder, t.Matcher, o)
	return tr
}
