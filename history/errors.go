package history

import "fmt"

// ContractViolation reports a programmer error: a precondition the spec
// treats as a contract rather than a recoverable condition (a path step
// naming the wrong element, a change referencing a container the current
// frame never observed, an empty frame stack popped once too often).
// Mirrors dom.DOMError's name/message shape, but is always panicked
// rather than returned, matching the fatal/recoverable split spec.md §7
// draws between assertion failures and ordinary errors.
type ContractViolation struct {
	Message string
}

func (e *ContractViolation) Error() string {
	return "contract violation: " + e.Message
}

func newContractViolation(format string, args ...interface{}) *ContractViolation {
	return &ContractViolation{Message: fmt.Sprintf(format, args...)}
}
