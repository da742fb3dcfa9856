package graph

import "github.com/probelab/validationsim/core"

// Next is the transition table of the run state machine. It only reads the
// state and never mutates it, so the same (node, state) pair always routes
// identically.
//
//	Plan ------> Select ------> Interrogate --> Checkpoint
//	               |                               |
//	               v                               v
//	           Synthesize <------ Select <-- {Select | Respond | Interrogate}
//	               |                               ^
//	               v                               |
//	             Done             Respond ---------+
//
// Select routes to Synthesize once the cursor has passed the last item,
// which is also how an empty interrogation loop terminates: every forced
// resolution moves the item terminal, Checkpoint routes back to Select, and
// Select keeps skipping terminal items.
func Next(scheme core.Scheme, n Node, s *core.RunState) Node {
	switch n {
	case NodePlan:
		return NodeSelect
	case NodeSelect:
		if s.Cursor >= len(s.Items) {
			return NodeSynthesize
		}
		return NodeInterrogate
	case NodeInterrogate, NodeRespond:
		return NodeCheckpoint
	case NodeCheckpoint:
		it := s.ActiveItem()
		if it == nil || scheme.IsTerminal(it.Status) {
			return NodeSelect
		}
		if s.CurrentQuestion != "" {
			return NodeRespond
		}
		return NodeInterrogate
	case NodeSynthesize:
		return NodeDone
	default:
		return NodeDone
	}
}
