// Package ui implements an interactive terminal front end for the funeral service history using bubbletea's Elm architecture.
//
// The TUI provides three views:
//  1. [ListView] : Browse funeral services newest first and search them (/ to search, esc to cancel)
//  2. [DetailView] : Read every field of the selected service
//  3. [FormView] : Create a new service, edit the selected one or copy it as a new service
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every store call runs inside a [tea.Cmd] so the terminal stays responsive.
//
// Closing a form, saved or not, refreshes the list and resets the search.
package ui
