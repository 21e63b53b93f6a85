package project

import (
	"fmt"
	"strings"
)

// Policy decides what happens when an output file already exists.
type Policy int

const (
	// PolicyPanic aborts the batch with a recoverable collision error.
	PolicyPanic Policy = iota
	// PolicyArchive copies the existing file into the archive tree, then
	// truncates it.
	PolicyArchive
	// PolicyOverwrite truncates the existing file.
	PolicyOverwrite
	// PolicyIgnore leaves the existing file untouched and read-only.
	PolicyIgnore
)

var policyNames = []string{"Panic", "Archive", "Overwrite", "Ignore"}

// Policies lists every policy in declaration order.
func Policies() []Policy {
	return []Policy{PolicyPanic, PolicyArchive, PolicyOverwrite, PolicyIgnore}
}

// String returns the configuration name of the policy.
func (p Policy) String() string {
	if int(p) < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

// ParsePolicy parses a policy name, ignoring case.
func ParsePolicy(s string) (Policy, error) {
	for i, name := range policyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Policy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown overwrite policy %q (want one of %s)", s, strings.Join(policyNames, ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if int(p) < 0 || int(p) >= len(policyNames) {
		return nil, fmt.Errorf("invalid policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
