package chat

import "errors"

// ErrNoFailedMessage is returned by Retry when the given id does not
// name a failed message in the view.
var ErrNoFailedMessage = errors.New("no failed message with that id")
