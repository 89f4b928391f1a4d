// Package submission gates delivery of a form payload on an empty error map.
//
// A Gate runs the Editing -> Validating -> (Rejected | Accepted) -> Editing
// cycle synchronously. The submitter is only invoked on Accepted; its error is
// logged and reported on the Result but never turns an accepted attempt into a
// rejected one.
package submission
