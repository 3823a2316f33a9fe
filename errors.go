package modelsearch

import (
	"errors"

	"github.com/helixml/modelsearch/application/service"
)

// ErrNoDatabase indicates New was called without a database option.
var ErrNoDatabase = errors.New("modelsearch: no database configured")

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = service.ErrClientClosed
