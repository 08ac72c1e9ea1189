package system

import "time"

// Phase defines execution ordering of frame services within one frame.
type Phase int

const (
	PhasePreUpdate Phase = iota // 0: deliver last frame's notifications
	PhaseUpdate                 // 1: tick the current world
	PhaseDraw                   // 2: draw the current world
	PhasePostDraw               // 3: present, frame statistics
)

func (p Phase) String() string {
	switch p {
	case PhasePreUpdate:
		return "PreUpdate"
	case PhaseUpdate:
		return "Update"
	case PhaseDraw:
		return "Draw"
	case PhasePostDraw:
		return "PostDraw"
	default:
		return "Unknown"
	}
}

// System is a frame service driven by the Runner. ECS systems proper live
// in the ecs package and run inside PhaseUpdate and PhaseDraw.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
