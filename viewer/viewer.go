package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/svgview"
	"github.com/gogpu/svgview/loader"
	"github.com/gogpu/svgview/render"
)

// Phase is the initialization state of a Viewer.
type Phase int32

const (
	// Uninitialized means no render state exists yet.
	Uninitialized Phase = iota
	// Initializing means Init is creating the render state.
	Initializing
	// Ready means the render state exists and documents can be shown.
	Ready
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}

// Viewer presents documents on one surface of a backend.
// All methods are safe for concurrent use.
type Viewer struct {
	backend render.Backend
	loader  *loader.Loader
	opts    options

	// lock is held for the whole of Init and for the stale check plus
	// presentation of a request. A channel so that waiting honors ctx.
	lock chan struct{}

	phase     atomic.Int32
	state     *render.State     // guarded by lock
	presenter *render.Presenter // guarded by lock

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	address string
	closed  bool

	wg sync.WaitGroup
}

// New creates a Viewer that renders through b. Nothing is created on the
// backend until Init or the first Load.
func New(b render.Backend, opts ...Option) *Viewer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := o.loader
	if l == nil {
		l = loader.New(o.fetcher, loader.WithParseOptions(o.parse))
	}
	return &Viewer{
		backend: b,
		loader:  l,
		opts:    o,
		lock:    make(chan struct{}, 1),
	}
}

// State returns the current initialization phase.
func (v *Viewer) State() Phase {
	return Phase(v.phase.Load())
}

// RenderState returns the render state created by Init, or nil.
func (v *Viewer) RenderState() (*render.State, error) {
	if err := v.acquire(context.Background()); err != nil {
		return nil, err
	}
	defer v.release()
	if v.state == nil {
		return nil, render.ErrNotInitialized
	}
	return v.state, nil
}

// Init creates the render state if it does not exist yet.
//
// Concurrent calls wait for each other; only the first creates anything
// and the others observe its result. A failed Init leaves the Viewer
// uninitialized so that a later call can retry.
func (v *Viewer) Init(ctx context.Context) error {
	if v.isClosed() {
		return ErrClosed
	}
	// Ready is final.
	if v.State() == Ready {
		return nil
	}
	if err := v.acquire(ctx); err != nil {
		return err
	}
	defer v.release()
	return v.initLocked(ctx)
}

func (v *Viewer) initLocked(ctx context.Context) error {
	if v.State() == Ready {
		return nil
	}
	log := svgview.Logger()
	v.phase.Store(int32(Initializing))

	spec := render.SurfaceSpec{
		Container: v.opts.container,
		Width:     v.opts.width,
		Height:    v.opts.height,
	}
	state, err := render.Setup(ctx, v.backend, spec, render.RendererOptions{
		AntialiasingSupport: render.AreaOnly(),
		Font:                v.opts.font,
	})
	if err != nil {
		v.phase.Store(int32(Uninitialized))
		log.Warn("viewer: init failed", "err", err)
		return err
	}

	v.state = state
	v.presenter = render.NewPresenter(state, v.backend,
		render.WithBackground(v.opts.background),
		render.WithAntialiasing(render.AAArea))
	v.phase.Store(int32(Ready))
	log.Info("viewer: ready", "container", spec.Container,
		"width", state.Surface().Width(), "height", state.Surface().Height())
	return nil
}

// Load fetches, parses and presents the document at address.
//
// Starting a Load cancels the one before it. If another Load starts
// before this one presents, Load returns ErrStale and nothing is drawn.
// Fetch and parse failures are returned as *loader.NetworkError and
// *svg.ParseError; the previous frame stays on screen.
func (v *Viewer) Load(ctx context.Context, address string) error {
	v.mu.Lock()
	seq, ctx, err := v.begin(ctx)
	v.mu.Unlock()
	if err != nil {
		return err
	}
	return v.load(ctx, seq, address)
}

// load runs request seq. The request is registered by the caller, so the
// order of sequence numbers is the order of the triggers.
func (v *Viewer) load(ctx context.Context, seq uint64, address string) error {
	defer v.finish(seq)

	log := svgview.Logger().With("seq", seq, "address", address)
	if err := v.Init(ctx); err != nil {
		if !v.isLatest(seq) {
			return ErrStale
		}
		return err
	}
	log.Debug("viewer: request started")

	fetchCtx := ctx
	if v.opts.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, v.opts.timeout)
		defer cancel()
	}
	doc, err := v.loader.LoadAndParse(fetchCtx, address)
	if err != nil {
		if !v.isLatest(seq) {
			return ErrStale
		}
		log.Warn("viewer: load failed", "err", err)
		return err
	}

	if err := v.acquire(ctx); err != nil {
		if !v.isLatest(seq) {
			return ErrStale
		}
		return err
	}
	defer v.release()

	if !v.isLatest(seq) {
		log.Debug("viewer: dropping stale document")
		return ErrStale
	}
	// Past the check the request presents even if a newer one cancels it;
	// the newer one waits for the lock.
	m := svgview.FitAndCenter(doc.Size(), v.presenter.Viewport())
	if err := v.presenter.RenderFrame(context.WithoutCancel(ctx), doc, m); err != nil {
		log.Warn("viewer: frame skipped", "err", err)
		return err
	}
	log.Debug("viewer: document presented", "scale", m.A)
	return nil
}

// SetAddress starts loading address in the background unless it equals
// the last address set. Failures go to the error handler.
func (v *Viewer) SetAddress(address string) {
	v.mu.Lock()
	if v.closed || address == v.address {
		v.mu.Unlock()
		return
	}
	v.address = address
	seq, ctx, _ := v.begin(context.Background())
	v.wg.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.wg.Done()
		v.report(address, v.load(ctx, seq, address))
	}()
}

// Address returns the last address passed to SetAddress.
func (v *Viewer) Address() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.address
}

// Wait blocks until all requests started by SetAddress have finished.
func (v *Viewer) Wait() {
	v.wg.Wait()
}

// Close cancels the running request and waits for background requests.
// The render state is left to the backend.
func (v *Viewer) Close() {
	v.mu.Lock()
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mu.Unlock()
	v.wg.Wait()
}

func (v *Viewer) report(address string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrStale), errors.Is(err, context.Canceled), errors.Is(err, ErrClosed):
		svgview.Logger().Debug("viewer: request dropped", "address", address, "err", err)
	default:
		if v.opts.onError != nil {
			v.opts.onError(address, err)
		}
	}
}

// begin registers a new request and cancels the previous one.
// v.mu must be held.
func (v *Viewer) begin(parent context.Context) (uint64, context.Context, error) {
	if v.closed {
		return 0, nil, ErrClosed
	}
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	v.seq++
	v.cancel = cancel
	return v.seq, ctx, nil
}

// finish releases the context of request seq.
func (v *Viewer) finish(seq uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seq == seq && v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *Viewer) isLatest(seq uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.seq == seq
}

func (v *Viewer) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *Viewer) acquire(ctx context.Context) error {
	select {
	case v.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *Viewer) release() {
	<-v.lock
}
