// SPDX-License-Identifier: GPL-3.0-or-later

package exec

import (
	"fmt"
	"sort"
	"strings"
)

// Invocation is a concrete external call: a shell command string plus
// an environment-variable mapping. Invocations act as cache keys for
// [Cell].
type Invocation struct {
	// Shell is the shell command to execute.
	Shell string

	// Env holds additional environment variables to set.
	Env map[string]string
}

// String implements [fmt.Stringer], rendering the invocation the way
// it would be typed at a shell prompt.
func (inv Invocation) String() string {
	var b strings.Builder
	keys := make([]string, 0, len(inv.Env))
	for k := range inv.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s ", k, inv.Env[k])
	}
	b.WriteString(inv.Shell)
	return b.String()
}

// Key returns a value suitable for use as a map key, since Go map
// keys cannot be structs containing a map field directly compared by
// value in a way that's stable for our purposes; this renders the
// same canonical form as [Invocation.String].
func (inv Invocation) Key() string {
	return inv.String()
}
