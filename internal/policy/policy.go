// Package policy decides whether an extracted command may continue unattended.
package policy

import (
	"strings"

	"github.com/iambrandonn/gsdchain/internal/chainconfig"
)

// denyList holds commands that always need a human at the keyboard.
// Matching is exact-prefix so trailing arguments do not bypass the check.
var denyList = []string{
	"/gsd-new-project",
	"/gsd-new-milestone",
}

const (
	discussCommand = "/gsd-discuss-phase"
	planCommand    = "/gsd-plan-phase"
)

// Decision reports whether a command may run unattended, possibly after
// rewriting. Reason explains a negative (or rewritten) outcome for the trace.
type Decision struct {
	Run     bool
	Command string
	Reason  string
}

// Decide applies the eligibility rules in order: inline no-auto directive,
// deny-list, skip-discuss rewrite. Confirm-only mode is the caller's concern;
// the decision only reports what would run.
func Decide(command, assistantText string, cfg chainconfig.ChainConfig) Decision {
	if strings.Contains(assistantText, chainconfig.DirectiveNoAuto) {
		return Decision{Run: false, Command: command, Reason: "no-auto directive present"}
	}

	for _, denied := range denyList {
		if strings.HasPrefix(command, denied) {
			return Decision{Run: false, Command: command, Reason: "command requires interactive input: " + denied}
		}
	}

	if cfg.SkipDiscuss && strings.HasPrefix(command, discussCommand) {
		rewritten := planCommand + strings.TrimPrefix(command, discussCommand)
		return Decision{Run: true, Command: rewritten, Reason: "discuss phase skipped"}
	}

	return Decision{Run: true, Command: command}
}
