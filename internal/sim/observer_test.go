package sim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

func TestTraceObserver_LogsStep(t *testing.T) {
	var buf bytes.Buffer
	obs := NewTraceObserver(zerolog.New(&buf))

	obs.OnStep(3,
		therm.State{30, 40},
		[]therm.CoolingLabel{therm.ActiveCooling, therm.NoCoolingNeeded},
		[]therm.ZoneStatus{therm.StatusNormal, therm.StatusOverheated},
	)

	out := buf.String()
	for _, want := range []string{`"step":3`, `"t_max":40`, `"active_cooling":1`, `"overheated":1`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %s", out, want)
		}
	}
}
