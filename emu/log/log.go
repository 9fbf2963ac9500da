// Package log is a per-module logger on top of logrus. Warnings and errors
// are always emitted; info and debug entries only for the modules enabled
// with EnableDebugModules. Entries of disabled modules are nil and cost a
// single branch per field.
//
//	log.ModVIC.DebugZ("write").String("reg", "border").Hex8("val", val).End()
package log

import "gopkg.in/Sirupsen/logrus.v0"

type Level uint8

// Same ordering as logrus: lower is more severe.
const (
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
)

func init() {
	// Filtering is done per module, let everything through logrus.
	logrus.SetLevel(logrus.DebugLevel)
}
