package transport

import "github.com/op/go-logging"

var log = logging.MustGetLogger("transport")
