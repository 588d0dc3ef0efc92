package engine

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/campath/engine/profiler"
	"github.com/Carmen-Shannon/campath/engine/rig"
)

type engine struct {
	tickRateChannel chan time.Duration
	running         atomic.Bool
	wg              sync.WaitGroup
	quitChannel     chan struct{}
	quitOnce        sync.Once

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate   time.Duration
	tickCallback     func(deltaTime float32)
	frameCallback    func(partial, deltaTime float32)
	rig              rig.Rig
	renderFrameLimit time.Duration
	maxTicks         int64

	ticks        atomic.Int64
	lastTickNano atomic.Int64
	tickNano     atomic.Int64
}

// Engine is the headless fixed-rate loop driving a camera rig.
// One goroutine advances simulation ticks at the tick rate; another produces frames as fast as
// the frame limit allows, each frame receiving the fraction of the current tick already elapsed.
type Engine interface {
	// Run starts the engine goroutines and blocks until Quit is called, the tick limit is
	// reached or ctx is cancelled.
	//
	// Parameters:
	//   - ctx: cancels the run when done
	Run(ctx context.Context)

	// Quit signals all engine goroutines to stop. Safe to call multiple times.
	Quit()

	// Rig returns the rig driven by the engine, or nil.
	//
	// Returns:
	//   - rig.Rig: the rig
	Rig() rig.Rig

	// Ticks returns the number of ticks executed so far.
	//
	// Returns:
	//   - int64: the tick count
	Ticks() int64

	// Partial returns the fraction of the current tick elapsed since the last tick, in [0, 1].
	//
	// Returns:
	//   - float32: the partial tick
	Partial() float32

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// If the engine is running, the change takes effect immediately.
	//
	// Parameters:
	//   - tps: ticks per second (<= 0 resets to 20)
	SetTickRate(tps float64)

	// SetTickCallback registers the function called each engine tick, after the rig ticks.
	//
	// Parameters:
	//   - callback: receives the seconds since the previous tick
	SetTickCallback(callback func(deltaTime float32))

	// SetFrameCallback registers the function called each frame, after the rig resolves its pose.
	//
	// Parameters:
	//   - callback: receives the partial tick and the seconds since the previous frame
	SetFrameCallback(callback func(partial, deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap.
	// Pass 0 to uncap the frame loop.
	//
	// Parameters:
	//   - fps: maximum frames per second
	SetRenderFrameLimit(fps float64)
}

var _ Engine = &engine{}

// DefaultTickRate is the simulation rate used when none is configured.
const DefaultTickRate = 20.0

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, rig, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(time.Second),
		engineTickRate:  time.Duration(float64(time.Second) / DefaultTickRate),
	}

	for _, opt := range options {
		opt(e)
	}
	e.tickNano.Store(int64(e.engineTickRate))

	return e
}

func (e *engine) Run(ctx context.Context) {
	if !e.running.CompareAndSwap(false, true) {
		return
	}
	e.lastTickNano.Store(time.Now().UnixNano())
	e.handle(ctx)
	e.wg.Wait()
	log.Printf("[Engine] stopped after %d ticks", e.ticks.Load())
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// handle launches the tick, frame and quit goroutines.
func (e *engine) handle(ctx context.Context) {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleFrames()
	go e.handleQuit(ctx)
}

// handleEngine runs the fixed-rate tick loop. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.rig != nil {
				e.rig.Tick()
			}
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
			e.lastTickNano.Store(now.UnixNano())
			n := e.ticks.Add(1)
			if e.profilingEnabled.Load() {
				e.profiler.CountTick()
			}
			if e.maxTicks > 0 && n >= e.maxTicks {
				e.signalQuit()
				return
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
			e.tickNano.Store(int64(newRate))
		}
	}
}

// handleFrames runs the uncapped (or frame-limited) frame loop.
// Recovers from panics and signals quit on recovery.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastFrame := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastFrame).Seconds())
			lastFrame = now

			partial := e.Partial()
			if e.rig != nil {
				e.rig.Frame(partial)
			}
			if e.frameCallback != nil {
				e.frameCallback(partial, dt)
			}

			if e.profilingEnabled.Load() {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastFrame)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed or ctx is done.
func (e *engine) handleQuit(ctx context.Context) {
	defer e.wg.Done()
	select {
	case <-e.quitChannel:
	case <-ctx.Done():
		e.signalQuit()
	}
}

func (e *engine) Rig() rig.Rig {
	return e.rig
}

func (e *engine) Ticks() int64 {
	return e.ticks.Load()
}

func (e *engine) Partial() float32 {
	interval := e.tickNano.Load()
	if interval <= 0 {
		return 1
	}
	elapsed := time.Now().UnixNano() - e.lastTickNano.Load()
	p := float32(float64(elapsed) / float64(interval))
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) SetTickRate(tps float64) {
	newRate := tickInterval(tps)

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
		e.tickNano.Store(int64(newRate))
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetFrameCallback(callback func(partial, deltaTime float32)) {
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameInterval(fps)
}

func tickInterval(tps float64) time.Duration {
	if tps <= 0 {
		tps = DefaultTickRate
	}
	return time.Duration(float64(time.Second) / tps)
}

func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
