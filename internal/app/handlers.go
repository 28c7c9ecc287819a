package app

import (
	"github.com/dshills/keymotion/internal/dispatcher"
	motionhandler "github.com/dshills/keymotion/internal/dispatcher/handlers/motion"
	"github.com/dshills/keymotion/internal/dispatcher/handlers/passthrough"
)

// RegisterHandlers registers the standard handlers with the dispatcher.
// logger receives the passthrough handler's per-command lines and may be nil.
func RegisterHandlers(d *dispatcher.Dispatcher, logger passthrough.Logger) {
	mh := motionhandler.NewHandler()
	d.Registry().RegisterAll(mh, mh.Commands()...)

	ph := passthrough.NewHandler(logger)
	d.Registry().RegisterAll(ph, ph.Commands()...)
}
