// Package generation turns recurring-task templates into board tasks.
//
// ResolveDue is the pure half: given an instant and the template list it
// decides which templates owe an instance for the current period (the day for
// weekly templates, the month for monthly ones), honouring the seasonal month
// range of weekly templates. Generator is the effectful half: for each due
// template it re-checks and creates the task inside one store transaction, so
// that overlapping sweeps produce at most one task per template per period,
// and then publishes the board event and the assignment notification.
package generation
