package scenario

import (
	"context"

	"github.com/vango-dev/vform/pkg/form"
)

// Frame is the form state after one replayed step. Step 0 is the state right
// after mounting.
type Frame struct {
	Step   int        `json:"step"`
	Action string     `json:"action"`
	Err    string     `json:"error,omitempty"`
	State  form.State `json:"state"`
}

// Replay mounts sc on a new controller built from cfg, runs every step in
// order and returns a frame per step. Step errors are recorded in the frame
// and do not stop the replay. The controller is disposed before returning.
func Replay(ctx context.Context, sc *Scenario, cfg form.Config) ([]Frame, error) {
	ctrl := form.New(cfg)
	defer ctrl.Dispose()

	f, err := Mount(sc, ctrl)
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(sc.Steps)+1)
	frames = append(frames, Frame{Action: "mount", State: ctrl.Snapshot()})
	for i, step := range sc.Steps {
		fr := Frame{Step: i + 1, Action: step.Action()}
		if err := f.Apply(ctx, step); err != nil {
			fr.Err = err.Error()
		}
		fr.State = ctrl.Snapshot()
		frames = append(frames, fr)
	}
	return frames, nil
}
