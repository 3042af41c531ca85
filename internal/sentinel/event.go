package sentinel

import (
	"errors"
	"fmt"
	"strings"
)

// SwitchMasterChannel is the only channel the daemon subscribes to. Sentinel
// publishes one message per completed failover on it.
const SwitchMasterChannel = "+switch-master"

// ErrWrongArity marks a +switch-master payload that does not carry the five
// expected tokens.
var ErrWrongArity = errors.New("wrong number of parameters")

// SwitchMasterEvent is a decoded failover notification:
// "masterName oldHost oldPort newHost newPort". Extra trailing tokens are
// ignored; no address validation is performed because downstream matching is
// plain string equality anyway.
type SwitchMasterEvent struct {
	MasterName string
	OldHost    string
	OldPort    string
	NewHost    string
	NewPort    string
}

// ParseSwitchMaster decodes a raw channel payload. Fewer than five tokens is
// a parse failure, never a partial event.
func ParseSwitchMaster(payload string) (SwitchMasterEvent, error) {
	tokens := strings.Fields(payload)
	if len(tokens) < 5 {
		return SwitchMasterEvent{}, fmt.Errorf("%w: %q", ErrWrongArity, payload)
	}
	return SwitchMasterEvent{
		MasterName: tokens[0],
		OldHost:    tokens[1],
		OldPort:    tokens[2],
		NewHost:    tokens[3],
		NewPort:    tokens[4],
	}, nil
}
