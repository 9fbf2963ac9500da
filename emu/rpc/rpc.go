// Package rpc implements the remote control of a running slideshow over
// net/rpc: advancing to the next picture, querying its status and
// grabbing the last presented frame.
package rpc

import "koala64/emu/log"

var modRPC = log.NewModule("rpc")

// DefaultPort is the TCP port used when none is given.
const DefaultPort = 6464
