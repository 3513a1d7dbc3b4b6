// This file is part of GopherPVR.
//
// GopherPVR is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPVR is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPVR.  If not, see <https://www.gnu.org/licenses/>.

package prefs

import (
	"sort"
	"strings"
	"sync"
)

// command line preferences are pushed as a group. only the most recent group
// is consulted by GetCommandLinePref().
var cmdline struct {
	crit  sync.Mutex
	stack []map[string]string
}

// PushCommandLineStack parses a string of the form "key::value; key::value"
// and pushes the resulting group onto the stack. Malformed entries are
// silently ignored.
func PushCommandLineStack(prefs string) {
	group := make(map[string]string)
	for _, p := range strings.Split(prefs, ";") {
		k, v, ok := strings.Cut(p, "::")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		group[k] = strings.TrimSpace(v)
	}

	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()
	cmdline.stack = append(cmdline.stack, group)
}

// PopCommandLineStack removes the most recent group from the stack and
// returns any entries that were not consumed by GetCommandLinePref(), in the
// same format as accepted by PushCommandLineStack().
func PopCommandLineStack() string {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()

	if len(cmdline.stack) == 0 {
		return ""
	}

	group := cmdline.stack[len(cmdline.stack)-1]
	cmdline.stack = cmdline.stack[:len(cmdline.stack)-1]

	var s []string
	for k, v := range group {
		s = append(s, k+"::"+v)
	}
	sort.Strings(s)
	return strings.Join(s, "; ")
}

// GetCommandLinePref returns the value for the key in the most recent group.
// The entry is consumed.
func GetCommandLinePref(key string) (string, bool) {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()

	if len(cmdline.stack) == 0 {
		return "", false
	}

	group := cmdline.stack[len(cmdline.stack)-1]
	v, ok := group[key]
	if ok {
		delete(group, key)
	}
	return v, ok
}

// SizeCommandLineStack returns the number of groups on the stack.
func SizeCommandLineStack() int {
	cmdline.crit.Lock()
	defer cmdline.crit.Unlock()
	return len(cmdline.stack)
}
