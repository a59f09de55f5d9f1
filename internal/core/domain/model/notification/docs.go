// Package notification describes what the lifecycle publishes to the message
// broker and what the customer is told.
//
// An Event is published to the stage queue when a post enters that stage
// ("post_created" on creation, "updated_post" on dispatch). When the post
// advances again, the event of the previous stage is drained from its queue
// and turned into a customer Message.
package notification
