// Package tasks runs multi-step jobs over the record store with real-time progress reporting.
//
// # Export
//
// [ExportEngine.Export] lists the (optionally searched) funeral services newest first,
// fetches each full record and writes one file per requested format plus an
// export_manifest.json summarising the run.
//
// Records are fetched one after another: the store is a single-user SQLite file and
// every call holds a connection only for its own statement.
//
// # Progress Reporting
//
// Progress is sent on an optional channel of [ProgressUpdate]. Sends use select with
// default so a slow or absent reader never blocks the export.
package tasks
