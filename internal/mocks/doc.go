// Package mocks holds hand-written test doubles for the service interfaces
// consumed by the HTTP layer and the CLI.
//
// Each mock exposes one function field per interface method. A nil field
// falls back to the mock's default return values, so a test only sets the
// behaviour it cares about:
//
//	tasks := &mocks.MockTaskService{
//		GetTaskFn: func(ctx context.Context, id int64) (*domain.Task, error) {
//			return nil, service.ErrTaskNotFound
//		},
//	}
package mocks
