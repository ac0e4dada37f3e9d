package game

import (
	"sync"

	"github.com/pthm-cable/shoal/systems"
)

// parallelThreshold is the minimum live agent count to steer in parallel.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// steerChunk is a range of g.agents for one worker.
type steerChunk struct {
	start, end int
}

// parallelState is a persistent pool of steering workers. Each worker owns a Controller
// so the sense scratch is never shared. Steering writes only to the agent being steered
// and reads the index snapshot, so the outcome does not depend on how work is split.
type parallelState struct {
	numWorkers  int
	controllers []*systems.Controller

	workChan chan steerChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState(g *Game, workers int) *parallelState {
	p := &parallelState{numWorkers: workers}
	for i := 0; i < workers; i++ {
		p.controllers = append(p.controllers, systems.NewController(g.cfg, g.repro))
	}
	return p
}

// startWorkers launches the worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan steerChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g, p.controllers[i])
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *parallelState) worker(g *Game, ctrl *systems.Controller) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.steerRange(ctrl, chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// steerParallel splits g.agents across the pool and waits for every chunk.
func (g *Game) steerParallel() {
	p := g.parallel
	if !p.running {
		p.startWorkers(g)
	}

	n := len(g.agents)
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- steerChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}

// steerRange computes steering for g.agents[start:end] with ctrl.
func (g *Game) steerRange(ctrl *systems.Controller, start, end int) {
	for i := start; i < end; i++ {
		a := &g.agents[i]
		if !a.Alive() {
			continue
		}
		res := ctrl.Steer(a, g.env)
		a.Kin.Accel = res.Accel
		a.Kin.SpeedLimit = res.SpeedLimit
		a.Kin.Darting = res.Darting
	}
}

func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
