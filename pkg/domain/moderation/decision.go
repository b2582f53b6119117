package moderation

import (
	"fmt"
	"strings"
)

// Decision is the verdict a single provider (or the consensus) returns for a content item.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionMonitor Decision = "MONITOR"
	DecisionFlag    Decision = "FLAG"
	DecisionBlock   Decision = "BLOCK"
)

var decisionSeverity = map[Decision]int{
	DecisionApprove: 0,
	DecisionMonitor: 1,
	DecisionFlag:    2,
	DecisionBlock:   3,
}

// Severity orders decisions from APPROVE (0) to BLOCK (3). Unknown values rank below APPROVE.
func (d Decision) Severity() int {
	if s, ok := decisionSeverity[d]; ok {
		return s
	}
	return -1
}

func (d Decision) Valid() bool {
	_, ok := decisionSeverity[d]
	return ok
}

func ParseDecision(s string) (Decision, error) {
	d := Decision(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown decision %q", s)
	}
	return d, nil
}

// Action is the concrete step taken against an actor or a message.
type Action string

const (
	ActionNone   Action = "NONE"
	ActionWarn   Action = "WARN"
	ActionMute   Action = "MUTE"
	ActionKick   Action = "KICK"
	ActionBan    Action = "BAN"
	ActionRedact Action = "REDACT"
)

var actionSeverity = map[Action]int{
	ActionNone:   0,
	ActionRedact: 1,
	ActionWarn:   2,
	ActionMute:   3,
	ActionKick:   4,
	ActionBan:    5,
}

var AllActions = []Action{ActionNone, ActionWarn, ActionMute, ActionKick, ActionBan, ActionRedact}

func (a Action) Severity() int {
	if s, ok := actionSeverity[a]; ok {
		return s
	}
	return -1
}

func (a Action) Valid() bool {
	_, ok := actionSeverity[a]
	return ok
}

// Irreversible reports whether the action cannot be undone within a single pass.
func (a Action) Irreversible() bool {
	return a == ActionKick || a == ActionBan || a == ActionRedact
}

// Expiring reports whether the action is time bounded.
func (a Action) Expiring() bool {
	return a == ActionWarn || a == ActionMute
}

func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}
