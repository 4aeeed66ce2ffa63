package task

// Authorize decides whether requesterID may read or mutate t.
//
// A missing task (nil) yields ErrNotFound, a task owned by someone else
// yields ErrNotOwner. The two outcomes are distinct: callers map them to
// different HTTP responses. List operations do not go through Authorize;
// they constrain the query to the requester's own records instead.
func Authorize(requesterID string, t *Task) error {
	if t == nil {
		return ErrNotFound
	}
	if t.UserID != requesterID {
		return ErrNotOwner
	}
	return nil
}
