// Package models defines the funeral service domain types and the persistence contract.
//
// Two shapes of the same stored entity exist:
//   - [ServiceSummary] : the projection shown in list views (order number, dates, customer, departed)
//   - [ServiceRecord] : the full detail record with customer, service, departed and pricing fields
//
// [RecordStore] is the contract the persistence layer exposes to the CLI and TUI.
// [RecordFields] describes every editable field once so flags, forms and exports stay in sync.
package models
