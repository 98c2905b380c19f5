package parallel

import (
	"image"
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Size is the requested number of workers; anything below 1 means one per CPU.
type Size int

func (s Size) Count() int {
	if s < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return int(s)
}

type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

func Start(numWorkers Size) *Pool {
	n := numWorkers.Count()

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if n > 1 {
		workChan := make(chan func(), n)

		for range n {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Bands splits r into horizontal strips and runs f on each of them on a
// short-lived pool, returning once every strip is done.
func Bands(r image.Rectangle, numWorkers Size, f func(band image.Rectangle)) {
	n := min(numWorkers.Count(), r.Dy())
	if n <= 1 {
		f(r)
		return
	}

	pool := Start(Size(n))
	step := (r.Dy() + n - 1) / n
	for y := r.Min.Y; y < r.Max.Y; y += step {
		band := image.Rect(r.Min.X, y, r.Max.X, min(y+step, r.Max.Y))
		pool.Do(func() { f(band) })
	}
	pool.Wait(true)
}
