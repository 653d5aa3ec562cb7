package renderer

import (
	"math/rand"
	"runtime"
	"sync"

	"pathtracer/pkg/core"
	"pathtracer/pkg/geometry"
	"pathtracer/pkg/scene"
)

// WorkerPool renders image rows in parallel. Workers persist across frames;
// each frame submits every row index once and waits for as many results.
// Rows partition the accumulator strictly, so workers write without locks.
type WorkerPool struct {
	rows       chan int
	done       chan int
	workers    []*worker
	numWorkers int
	wg         sync.WaitGroup
}

// worker renders single rows with its own raytracer and random generator
type worker struct {
	tracer      *Raytracer
	camera      *Camera
	width       int
	accumulated [][]core.Vec3
	rows        chan int
	done        chan int
}

// NewWorkerPool creates numWorkers workers over the shared scene, BVH,
// camera, and accumulator. Zero or negative numWorkers uses the CPU count.
// Worker generators are seeded deterministically by worker index.
func NewWorkerPool(sc *scene.Scene, bvh *geometry.BVH, camera *Camera, accumulated [][]core.Vec3, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		rows:       make(chan int, sc.Height),
		done:       make(chan int, sc.Height),
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		rng := rand.New(rand.NewSource(int64(i) + 1))
		wp.workers = append(wp.workers, &worker{
			tracer:      NewRaytracer(sc, bvh, rng),
			camera:      camera,
			width:       sc.Width,
			accumulated: accumulated,
			rows:        wp.rows,
			done:        wp.done,
		})
	}
	return wp
}

// Start launches all workers
func (wp *WorkerPool) Start() {
	for _, w := range wp.workers {
		wp.wg.Add(1)
		go w.run(&wp.wg)
	}
}

// Stop closes the row queue and waits for the workers to drain it
func (wp *WorkerPool) Stop() {
	close(wp.rows)
	wp.wg.Wait()
	close(wp.done)
}

// NumWorkers returns the worker count
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// RenderFrame submits every row and blocks until the frame is complete
func (wp *WorkerPool) RenderFrame(height int) {
	for y := 0; y < height; y++ {
		wp.rows <- y
	}
	for i := 0; i < height; i++ {
		<-wp.done
	}
}

// run is the worker loop
func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for y := range w.rows {
		w.renderRow(y)
		w.done <- y
	}
}

// renderRow traces the four supersampling rays of every pixel in the row
// and adds the averaged radiance to the accumulator
func (w *worker) renderRow(y int) {
	row := w.accumulated[y]
	for x := 0; x < w.width; x++ {
		sum := core.Vec3{}
		for _, ray := range w.camera.GetRays(x, y) {
			sum = sum.Add(w.tracer.Color(0, ray))
		}
		row[x] = row[x].Add(sum.Multiply(0.25))
	}
}
