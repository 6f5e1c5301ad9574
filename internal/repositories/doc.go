// Package repositories implements SQLite persistence for funeral service records.
//
// [FuneralServiceRepository] implements [models.RecordStore]. Every operation acquires a single
// connection from the pool, runs one statement and releases the connection before returning,
// on error paths too. All user supplied values are bound parameters.
//
// Order numbers are assigned by SQLite (INTEGER PRIMARY KEY AUTOINCREMENT). Because rows are never
// deleted, the next assigned number is always MAX(order_number)+1, which is what
// [FuneralServiceRepository.NextOrderNumber] reports.
package repositories
