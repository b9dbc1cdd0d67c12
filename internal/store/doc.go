// Package store defines the persistence interfaces for tasks and the errors
// and transaction helper shared by their implementations. Business rules stay
// independent of the database technology behind these interfaces.
package store
