// Package post contains the Post aggregate and the values it owns.
//
// A post is created in CREATED status with a tracking code, a fee quote and a
// delivery address. It then moves forward only:
//
//	CREATED ──> IN_TRANSIT ──> DELIVERED
//
// Every requested change is resolved through the transition table in
// status.go. Rejected changes surface as errs.ConflictError and leave the post
// untouched; accepted changes append to the History and set the dispatch or
// delivery timestamp.
//
// Posts are restored from persistence or cache through RestorePost, which
// re-checks the same invariants NewPost enforces.
package post
