package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/yuusheng/rolldown/internal/logger"
)

// A nil timer is valid and records nothing, so callers don't need to check
// whether timing is enabled. A timer belongs to one module and isn't safe for
// concurrent use.
type Timer struct {
	data []timerData
}

type timerData struct {
	time  time.Time
	name  string
	isEnd bool
}

type StageDuration struct {
	Name     string
	Duration time.Duration
}

func (t *Timer) Begin(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name: name,
			time: time.Now(),
		})
	}
}

func (t *Timer) End(name string) {
	if t != nil {
		t.data = append(t.data, timerData{
			name:  name,
			time:  time.Now(),
			isEnd: true,
		})
	}
}

// Durations pairs every "Begin" with its "End", in the order the stages
// started. Nested stages are indented by two spaces per level.
func (t *Timer) Durations() []StageDuration {
	if t == nil {
		return nil
	}

	type pair struct {
		timerData
		index int
	}

	var result []StageDuration
	var stack []pair
	indent := 0

	for _, item := range t.data {
		if !item.isEnd {
			top := pair{timerData: item, index: len(result)}
			result = append(result, StageDuration{Name: strings.Repeat("  ", indent) + item.name})
			stack = append(stack, top)
			indent++
		} else {
			indent--
			last := len(stack) - 1
			top := stack[last]
			stack = stack[:last]
			if item.name != top.name {
				panic("Internal error")
			}
			result[top.index].Duration = item.time.Sub(top.time)
		}
	}

	return result
}

func (t *Timer) Log(log logger.Log, title string) {
	if t == nil {
		return
	}

	sb := strings.Builder{}
	sb.WriteString(title)
	for _, stage := range t.Durations() {
		sb.WriteString(fmt.Sprintf("\n  %s: %dms", stage.Name, stage.Duration.Milliseconds()))
	}
	log.AddVerbose(sb.String())
}
