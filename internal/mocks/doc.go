// Package mocks provides shared testify mocks for the store interfaces and
// the services, plus small fakes for the transactor, event emitter and
// notifier.
//
//	tasks := new(mocks.TaskStore)
//	tasks.On("GetByID", mock.Anything, id).Return(task, nil)
//	tx := mocks.NewTransactor(mocks.TxStores{Tasks: tasks})
package mocks
