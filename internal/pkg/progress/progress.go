package progress

import (
	"strings"
	"sync"
	"time"

	"github.com/quickscribe/quickscribe/internal/pkg/status"
)

var statusProgressMap = make(map[string]int32)

func init() {
	statusProgressMap[status.Name(status.Pending)] = 5
	statusProgressMap[status.Name(status.Completed)] = 100
}

//Convert return percentage value of a progress for status value
func Convert(st string) int32 {
	pr, found := statusProgressMap[strings.ToLower(strings.TrimSpace(st))]
	if found {
		return pr
	}
	s := status.From(st)
	if status.IsTerminal(s) {
		return statusProgressMap[status.Name(s)]
	}
	return 0
}

// Animator drives an estimated processing percentage while a job runs.
// Backends give no granular progress, so the value creeps up and
// holds below maxEstimate until a real terminal status arrives
type Animator struct {
	Interval time.Duration
	Step     float64
	OnChange func(percent int32)

	m       sync.Mutex
	current float64
	stop    chan struct{}
}

const maxEstimate = 95

//NewAnimator creates Animator instance
func NewAnimator(onChange func(percent int32)) *Animator {
	return &Animator{Interval: time.Second, Step: 0.5, OnChange: onChange}
}

//Start begins the animation from zero. A running animation is restarted
func (a *Animator) Start() {
	a.m.Lock()
	defer a.m.Unlock()
	a.stopNoLock()
	a.current = 0
	stop := make(chan struct{})
	a.stop = stop
	go a.run(stop)
}

//Stop ends the animation. Safe to call several times
func (a *Animator) Stop() {
	a.m.Lock()
	defer a.m.Unlock()
	a.stopNoLock()
}

//Current returns the current estimate
func (a *Animator) Current() int32 {
	a.m.Lock()
	defer a.m.Unlock()
	return int32(a.current)
}

func (a *Animator) stopNoLock() {
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
}

func (a *Animator) run(stop chan struct{}) {
	ticker := time.NewTicker(a.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.m.Lock()
			if a.stop == nil {
				a.m.Unlock()
				return
			}
			if a.current < maxEstimate {
				a.current += a.Step
			}
			v := int32(a.current)
			a.m.Unlock()
			if a.OnChange != nil {
				a.OnChange(v)
			}
		}
	}
}
