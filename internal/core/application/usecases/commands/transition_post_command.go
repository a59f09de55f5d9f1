package commands

import (
	"errors"
	"fmt"

	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"
	"posttracker/internal/pkg/guard"
)

var ErrTransitionPostCommandIsNotConstructed = errors.New(
	"TransitionPostCommand must be created via NewTransitionPostCommand constructor",
)

// TransitionPostCommand is a request to move a post to another status.
//
// Example:
//
//	cmd, err := NewTransitionPostCommand(42, "IN_TRANSIT")
//	if err != nil {
//	    return err
//	}
//	p, err := handler.Handle(ctx, cmd)
type TransitionPostCommand struct { //nolint:recvcheck //using for validation
	postID int64
	status post.Status

	guard guard.ConstructorGuard
}

// NewTransitionPostCommand parses the requested status and checks the id.
// Whether the transition is allowed is decided later, against the stored post.
func NewTransitionPostCommand(postID int64, status string) (TransitionPostCommand, error) {
	cmd := TransitionPostCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPostID(postID),
		cmd.setStatus(status),
	); err != nil {
		return TransitionPostCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionPostCommand) Validate() error {
	return c.guard.Validate(ErrTransitionPostCommandIsNotConstructed)
}

// PostID returns the store id of the post.
func (c TransitionPostCommand) PostID() int64 {
	return c.postID
}

// Status returns the requested status.
func (c TransitionPostCommand) Status() post.Status {
	return c.status
}

func (c *TransitionPostCommand) setPostID(postID int64) error {
	if postID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("post id", fmt.Errorf("%d is not greater than 0", postID))
	}
	c.postID = postID
	return nil
}

func (c *TransitionPostCommand) setStatus(status string) error {
	parsed, err := post.ParseStatus(status)
	if err != nil {
		return err
	}
	c.status = parsed
	return nil
}
