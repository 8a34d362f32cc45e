//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/common/errclass/errclass.go
//

// Package errclass classifies process-execution and filesystem errors
// into short, descriptive labels for structured logging.
package errclass

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
)

// New classifies err into a short label, or returns the empty string
// when err is nil.
func New(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed_out"
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "exit_status"
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		if label := classifyErrno(pathErr.Err); label != "" {
			return label
		}
	}

	if label := classifyErrno(err); label != "" {
		return label
	}

	if errors.Is(err, fs.ErrNotExist) {
		return "not_found"
	}
	if errors.Is(err, fs.ErrPermission) {
		return "permission_denied"
	}

	return "unknown"
}

func classifyErrno(err error) string {
	switch {
	case errors.Is(err, errEINVAL):
		return "invalid_argument"
	case errors.Is(err, errEINTR):
		return "interrupted"
	case errors.Is(err, errETIMEDOUT):
		return "timed_out"
	case errors.Is(err, errECONNREFUSED):
		return "connection_refused"
	case errors.Is(err, errECONNRESET):
		return "connection_reset"
	case errors.Is(err, errECONNABORTED):
		return "connection_aborted"
	case errors.Is(err, errENETDOWN):
		return "network_down"
	case errors.Is(err, errENETUNREACH):
		return "network_unreachable"
	case errors.Is(err, errEHOSTUNREACH):
		return "host_unreachable"
	case errors.Is(err, errEADDRINUSE):
		return "address_in_use"
	case errors.Is(err, errEADDRNOTAVAIL):
		return "address_not_available"
	case errors.Is(err, errENOTCONN):
		return "not_connected"
	case errors.Is(err, errENOBUFS):
		return "no_buffer_space"
	case errors.Is(err, errEPROTONOSUPPORT):
		return "protocol_not_supported"
	default:
		return ""
	}
}
