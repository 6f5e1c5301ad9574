package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/martium/fsh/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgServicesLoaded MsgKind = iota
	MsgServiceLoaded
	MsgFormReady
	MsgServiceSaved
)

type servicesLoaded struct {
	summaries []models.ServiceSummary
	phrase    string
	err       error
}

type serviceLoaded struct {
	record *models.ServiceRecord
	err    error
}

type formReady struct {
	op     models.Operation
	record *models.ServiceRecord
	next   int
	err    error
}

type serviceSaved struct {
	op          models.Operation
	orderNumber int
	ok          bool
	err         error
}

// servicesLoadedMsg is the constructor for [MsgServicesLoaded]
func servicesLoadedMsg(summaries []models.ServiceSummary, phrase string, err error) Msg {
	return Msg{kind: MsgServicesLoaded, data: servicesLoaded{summaries, phrase, err}}
}

// serviceLoadedMsg is the constructor for [MsgServiceLoaded]
func serviceLoadedMsg(record *models.ServiceRecord, err error) Msg {
	return Msg{kind: MsgServiceLoaded, data: serviceLoaded{record, err}}
}

// formReadyMsg is the constructor for [MsgFormReady]
func formReadyMsg(op models.Operation, record *models.ServiceRecord, next int, err error) Msg {
	return Msg{kind: MsgFormReady, data: formReady{op, record, next, err}}
}

// serviceSavedMsg is the constructor for [MsgServiceSaved]
func serviceSavedMsg(op models.Operation, orderNumber int, ok bool, err error) Msg {
	return Msg{kind: MsgServiceSaved, data: serviceSaved{op, orderNumber, ok, err}}
}
