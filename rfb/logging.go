package rfb

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("rfb")

// ConfigureLogging sets the package-wide log level and formatter from the
// VNC_LOGLEVEL environment variable (DEBUG/INFO/WARNING/ERROR, default
// INFO). It's a convenience for command-line hosts; library callers that
// want finer control can talk to github.com/op/go-logging directly, or
// override Config.Logger entirely.
func ConfigureLogging() {
	level := logging.INFO
	switch os.Getenv("VNC_LOGLEVEL") {
	case "DEBUG":
		level = logging.DEBUG
	case "WARNING", "WARN":
		level = logging.WARNING
	case "ERROR":
		level = logging.ERROR
	}
	logging.SetLevel(level, "")
	logging.SetFormatter(logging.MustStringFormatter(
		"%{level:.1s}%{time:0102 15:04:05.999999} %{shortfile}] %{message}"))
}
