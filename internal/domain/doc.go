// Package domain contains the task entity, its status state machine and the
// validation rules every persisted task satisfies. It is independent of any
// storage or delivery mechanism.
package domain
