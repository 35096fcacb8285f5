package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/quickscribe/quickscribe/internal/pkg/cmdapp"
	"github.com/quickscribe/quickscribe/internal/pkg/status"
)

//Store persists the active job id so a restart can resume watching
type Store interface {
	Save(id string) error
	Active() (string, bool)
	Clear() error
}

//Checker asks the status endpoint about a job
type Checker interface {
	Check(ctx context.Context, id string) (*Payload, error)
}

//Outcome is delivered exactly once per watched job
type Outcome struct {
	ID     string
	Status status.Status
	Result Result
	//Error carries the worker-reported message for failed jobs
	Error string
}

//Config holds engine settings
type Config struct {
	//PollInterval between status checks, default 5s
	PollInterval time.Duration
	//Timeout after which a watched job is declared failed locally, 0 disables
	Timeout time.Duration
}

type state int

const (
	idle state = iota
	watching
)

//Engine decides exactly once when a watched job reaches a terminal state,
//no matter whether the notification arrives by push or poll, and in which
//envelope shape. All terminal bookkeeping happens before the outcome
//handler runs, so duplicate notifications are no-ops
type Engine struct {
	store      Store
	checker    Checker
	cfg        Config
	onTerminal func(Outcome)

	lock   sync.Mutex
	state  state
	jobID  string
	cancel context.CancelFunc
}

//NewEngine creates an engine
func NewEngine(store Store, checker Checker, cfg Config) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Engine{store: store, checker: checker, cfg: cfg}
}

//OnTerminal registers the single outcome handler
func (e *Engine) OnTerminal(f func(Outcome)) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.onTerminal = f
}

//Active returns the currently watched job id
func (e *Engine) Active() (string, bool) {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.jobID, e.state == watching
}

//Watch persists the job id and starts the poll loop. A watch in progress
//is superseded: its timers are cancelled and the persisted id overwritten.
//When persisting fails nothing changes, a previous watch keeps running
func (e *Engine) Watch(ctx context.Context, id string) error {
	if err := e.store.Save(id); err != nil {
		return errors.Wrap(err, "can't persist job id")
	}

	e.lock.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	wCtx, cancel := context.WithCancel(ctx)
	e.state = watching
	e.jobID = id
	e.cancel = cancel
	e.lock.Unlock()

	go e.pollLoop(wCtx, id)
	if e.cfg.Timeout > 0 {
		go e.timeoutLoop(wCtx, id)
	}
	return nil
}

//Resume restarts watching the persisted job id after a restart.
//Returns the resumed id, or false when nothing was persisted
func (e *Engine) Resume(ctx context.Context) (string, bool, error) {
	id, found := e.store.Active()
	if !found {
		return "", false, nil
	}
	if err := e.Watch(ctx, id); err != nil {
		return "", false, err
	}
	return id, true, nil
}

//Stop cancels the poll loop without touching the persisted id, so the
//next run resumes the watch
func (e *Engine) Stop() {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.state = idle
	e.jobID = ""
}

//CheckNow issues one out-of-band status check, used on push reconnect so a
//result delivered while disconnected is not missed
func (e *Engine) CheckNow(ctx context.Context) {
	e.lock.Lock()
	id := e.jobID
	active := e.state == watching
	e.lock.Unlock()
	if active {
		e.checkOnce(ctx, id)
	}
}

//Handle processes one notification. Safe to call any number of times with
//the same terminal payload: the persisted id is cleared and timers are
//cancelled while still holding the state lock, before any presentation
//work, and later calls for the job see the engine already idle
func (e *Engine) Handle(p *Payload) {
	st := status.From(p.Status)
	if !status.IsTerminal(st) {
		return
	}

	e.lock.Lock()
	if e.state != watching || (p.ID != "" && p.ID != e.jobID) {
		e.lock.Unlock()
		return
	}
	id := e.jobID
	e.state = idle
	e.jobID = ""
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if err := e.store.Clear(); err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "can't clear persisted job id"))
	}
	handler := e.onTerminal
	e.lock.Unlock()

	out := NewOutcome(id, p)
	if handler != nil {
		handler(out)
	}
}

//NewOutcome builds the outcome for a terminal payload
func NewOutcome(id string, p *Payload) Outcome {
	st := status.From(p.Status)
	out := Outcome{ID: id, Status: st}
	if st == status.Failed {
		out.Error = p.Error
		if out.Error == "" {
			out.Error = "Unknown error occurred"
		}
	} else {
		out.Result = Normalize(p)
	}
	return out
}

func (e *Engine) pollLoop(ctx context.Context, id string) {
	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.checkOnce(ctx, id)
		}
	}
}

//checkOnce swallows failures, the next tick retries
func (e *Engine) checkOnce(ctx context.Context, id string) {
	p, err := e.checker.Check(ctx, id)
	if err != nil {
		cmdapp.Log.Warnf("Poll failed for %s: %v", id, err)
		return
	}
	e.Handle(p)
}

func (e *Engine) timeoutLoop(ctx context.Context, id string) {
	t := time.NewTimer(e.cfg.Timeout)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
		e.Handle(&Payload{ID: id, Status: status.Name(status.Failed), Error: "Processing timed out"})
	}
}
