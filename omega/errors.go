package omega

import "errors"

var errAlreadyRunning = errors.New("omega: connection already started")
