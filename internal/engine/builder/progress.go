package builder

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.trai.ch/bud/internal/core/ports"
)

// progress numbers tasks in the order they start and writes timestamped log lines:
//
//	[3/12   0.481s] Started building: compile.
type progress struct {
	logger ports.Logger
	total  int
	begin  time.Time
	last   atomic.Int64
}

func newProgress(logger ports.Logger, total int) *progress {
	return &progress{
		logger: logger,
		total:  total,
		begin:  time.Now(),
	}
}

// next assigns the next task number.
func (p *progress) next() int {
	return int(p.last.Add(1))
}

func (p *progress) log(number int, msg string) {
	elapsed := time.Since(p.begin).Seconds()
	p.logger.Info(fmt.Sprintf("[%d/%d %7.3fs] %s", number, p.total, elapsed, msg))
}

func (p *progress) logStarted(number int, task string) {
	p.log(number, "Started building: "+task+".")
}

func (p *progress) logDone(number int, task string) {
	p.log(number, "Done building: "+task+".")
}

func (p *progress) logReused(number int, task string) {
	p.log(number, "Reused cached output: "+task+".")
}
