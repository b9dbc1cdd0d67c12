// Package service contains the task use cases. It orchestrates the domain
// rules in internal/domain and the persistence defined in internal/store to
// fulfill the operations the API exposes.
//
// Key components:
//
// 1. TaskService:
//   - Listing with search, status scope, due-date bounds and pagination
//   - Creation, full edits and deletion
//   - The complete and cancel transitions, checked against a TransitionPolicy
//
// 2. Transactions:
//   - Read-modify-write operations run inside store.RunInTransaction using a
//     repository bound to the transaction with WithTx
//   - Stored versions detect concurrent edits; a mismatch yields ErrConflict
//
// 3. Events and caching:
//   - Every committed mutation emits a task event
//   - List pages may be cached through ListCache; CacheInvalidator clears
//     the cache when a task event arrives
//
// 4. Error Handling:
//   - Store sentinels are translated to ErrTaskNotFound and ErrConflict
//   - Domain validation errors pass through wrapped in TaskServiceError
package service
