// Package listing implements the task list query: base-set selection by
// status, name and due-date filtering, deterministic ordering, pagination and
// the page-number window offered for navigation. Everything here is pure and
// works on tasks already loaded from the store.
package listing
