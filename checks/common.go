//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/common.rs,
// _examples/original_source/spec_checks/src/command/mod.rs
//

package checks

import (
	"fmt"
	"strings"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
	"github.com/bassosimone/specsheet/exec"
)

// portRequestSpec is the address/source/ufw-annotation shape shared by
// the tcp and udp checks.
type portRequestSpec struct {
	request   adapters.PortRequest
	hasTarget bool
	source    string
	ufwAllow  string
	hasUfw    bool
}

// readPortRequestSpec parses the "port", "address", "source", and
// "ufw" fields shared by the tcp and udp checks. Callers must still
// validate their own key set and read "state" themselves, since the
// accepted state vocabulary differs between the two checks.
func readPortRequestSpec(protocol string, v specsheet.Value) (portRequestSpec, error) {
	var spec portRequestSpec

	port, err := readPortNumber(v)
	if err != nil {
		return spec, err
	}
	spec.request = adapters.PortRequest{Protocol: protocol, Host: "127.0.0.1", Port: port}

	if addrVal, ok := v.Get("address"); ok {
		addr, err := addrVal.StringOrError("address")
		if err != nil {
			return spec, err
		}
		if addr == "" {
			return spec, specsheet.NewInvalidValue("address", addrVal, "it must not be empty")
		}
		spec.request.Host = addr
		spec.hasTarget = true
	}

	if sourceVal, ok := v.Get("source"); ok {
		source, err := sourceVal.StringOrError("source")
		if err != nil {
			return spec, err
		}
		if source == "" {
			return spec, specsheet.NewInvalidValue("source", sourceVal, "it must be an IP address or an interface")
		}
		spec.source = source
	}

	if ufwVal, ok := v.Get("ufw"); ok {
		if err := ufwVal.EnsureTable("ufw"); err != nil {
			return spec, err
		}
		if err := ufwVal.EnsureOnlyKeys([]string{"allow"}); err != nil {
			return spec, err
		}
		allowVal, err := ufwVal.GetOrReadError("allow")
		if err != nil {
			return spec, err
		}
		allow, err := allowVal.StringOrError("allow")
		if err != nil {
			return spec, err
		}
		spec.ufwAllow = allow
		spec.hasUfw = true
	}

	return spec, nil
}

// rewrite applies rw's interface rules to source, if it names one.
// The target address has no matching rewrite kind (it is neither a
// path, an interface, nor a URL) and is left untouched.
func (s *portRequestSpec) rewrite(rw *specsheet.Rewrites) {
	if strings.HasPrefix(s.source, "%") {
		s.source = rw.Interface(s.source)
	}
}

// describe renders the shared "<NOUN> port 'N'[ on '...'][ from
// '...'][ (with UFW check to '...')]" prefix common to tcp and udp.
func (s portRequestSpec) describe(noun string) string {
	str := noun
	if s.hasTarget {
		str += fmt.Sprintf(" on '%s'", s.request.Host)
	}
	if s.source != "" {
		if strings.HasPrefix(s.source, "%") {
			str += fmt.Sprintf(" from interface '%s'", s.source[1:])
		} else {
			str += fmt.Sprintf(" from '%s'", s.source)
		}
	}
	if s.hasUfw {
		str += fmt.Sprintf(" (with UFW check to '%s')", s.ufwAllow)
	}
	return str
}

// readPortNumber reads and validates a "port" parameter, in 1..65535.
func readPortNumber(v specsheet.Value) (int, error) {
	portVal, err := v.GetOrReadError("port")
	if err != nil {
		return 0, err
	}
	n, err := portVal.NumberOrError("port")
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > 65535 {
		return 0, specsheet.NewInvalidValue("port", portVal, "it must be between 1 and 65535")
	}
	return int(n), nil
}

// readInvocation reads the "shell" and optional "environment" fields
// shared by the cmd and tap checks into an [exec.Invocation].
func readInvocation(v specsheet.Value) (exec.Invocation, error) {
	shellVal, err := v.GetOrReadError("shell")
	if err != nil {
		return exec.Invocation{}, err
	}
	shell, err := shellVal.StringOrError("shell")
	if err != nil {
		return exec.Invocation{}, err
	}
	if shell == "" {
		return exec.Invocation{}, specsheet.NewInvalidValue("shell", shellVal, "it must not be empty")
	}

	var env map[string]string
	if envVal, ok := v.Get("environment"); ok {
		env, err = envVal.StringMapOrReadError("environment")
		if err != nil {
			return exec.Invocation{}, err
		}
	}
	return exec.Invocation{Shell: shell, Env: env}, nil
}
