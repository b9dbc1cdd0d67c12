// Package events carries task change notifications from the service layer
// to interested components, such as the list cache invalidator and the audit
// log, without coupling the service to them.
package events
