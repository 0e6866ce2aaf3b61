package energyservice

import "errors"

var ErrNoFiles = errors.New("at least one of the electricity or gas sheets is required")
