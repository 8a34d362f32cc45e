//go:build unix

//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package adapters

import "golang.org/x/sys/unix"

func statOwnership(path string) (uid, gid uint32) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, 0
	}
	return st.Uid, st.Gid
}
