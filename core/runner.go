package core


import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"oms-loadtest/util"
)


type RunnerParams struct {
	// Number of simulated users.
	Users      int

	// Users started per second. All users start at once when not positive.
	SpawnRate  float64

	// Pause between two steps of a user.
	Wait       time.Duration

	// Template of the parameters of every user. The logger is extended
	// per user.
	Driver     DriverParams

	Logger     util.Logger
}


// Runs the step loop of each simulated user in its own goroutine.
//
type Runner struct {
	params   RunnerParams
	active   int64
	removed  int64
	logger   util.Logger
}

func NewRunner(params *RunnerParams) *Runner {
	var this Runner

	this.params = *params

	this.logger = this.params.Logger
	if this.logger == nil {
		this.logger = util.ExtendLogger("runner")
	}

	return &this
}

// Number of users currently running.
//
func (this *Runner) Active() int {
	return int(atomic.LoadInt64(&this.active))
}

// Number of users which sent all their requests.
//
func (this *Runner) Removed() int {
	return int(atomic.LoadInt64(&this.removed))
}

// Spawn the users and wait for them to finish, or for `ctx` to be done.
// Return the context error in the latter case.
//
func (this *Runner) Run(ctx context.Context) error {
	var interval time.Duration
	var wg sync.WaitGroup
	var timer *time.Timer
	var index int

	if this.params.SpawnRate > 0 {
		interval = time.Duration(float64(time.Second) /
			this.params.SpawnRate)
	}

	this.logger.Infof("spawn %d users at %.2f users/s",
		this.params.Users, this.params.SpawnRate)

	spawn:
	for index = 0; index < this.params.Users; index++ {
		if (index > 0) && (interval > 0) {
			timer = time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				break spawn
			case <-timer.C:
			}
		}

		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		atomic.AddInt64(&this.active, 1)

		go func(index int) {
			defer wg.Done()
			defer atomic.AddInt64(&this.active, -1)
			this.runUser(ctx, index)
		}(index)
	}

	wg.Wait()

	if ctx.Err() != nil {
		this.logger.Infof("interrupted with %d users removed",
			this.Removed())
		return ctx.Err()
	}

	this.logger.Infof("all %d users removed", this.Removed())

	return nil
}


type userSlot struct {
	runner   *Runner
	index    int
	removed  bool
}

func (this *userSlot) RequestRemoval() {
	if this.removed {
		return
	}

	this.removed = true
	atomic.AddInt64(&this.runner.removed, 1)
}

func (this *Runner) runUser(ctx context.Context, index int) {
	var params DriverParams = this.params.Driver
	var slot *userSlot = &userSlot{ runner: this, index: index }
	var logger util.Logger = this.logger.Extend(fmt.Sprintf("user[%d]",
		index))
	var driver *Driver

	params.Logger = logger
	params.Session.Logger = logger.Extend("session")

	driver = NewDriver(&params, slot)
	driver.Start()
	defer driver.Stop()

	for ctx.Err() == nil {
		if !driver.Step() {
			break
		}

		if this.params.Wait > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(this.params.Wait):
			}
		}
	}

	if slot.removed {
		logger.Debugf("removed after %d requests", driver.Requests())
	} else {
		logger.Debugf("cancelled after %d requests", driver.Requests())
	}
}
