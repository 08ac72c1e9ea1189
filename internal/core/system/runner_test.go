package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type probe struct {
	name  string
	phase Phase
	log   *[]string
}

func (p *probe) Phase() Phase { return p.phase }
func (p *probe) Update(time.Duration) {
	*p.log = append(*p.log, p.name)
}

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&probe{"draw", PhaseDraw, &log})
	r.Register(&probe{"tick", PhaseUpdate, &log})
	r.Register(&probe{"events", PhasePreUpdate, &log})
	r.Register(&probe{"tick2", PhaseUpdate, &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"events", "tick", "tick2", "draw"}, log)
	assert.Equal(t, uint64(1), r.Frames())

	log = nil
	r.TickPhase(PhaseUpdate, time.Millisecond)
	assert.Equal(t, []string{"tick", "tick2"}, log)
	assert.Equal(t, uint64(1), r.Frames(), "partial ticks are not frames")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "PreUpdate", PhasePreUpdate.String())
	assert.Equal(t, "PostDraw", PhasePostDraw.String())
	assert.Equal(t, "Unknown", Phase(42).String())
}
