// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package clause

import "sync"

// The auxiliary mark is a process-wide scratch field used inside a single
// index query to deduplicate visited clauses.  It is held by at most one
// scope at a time; nesting is a programming error.

var (
	auxMu     sync.Mutex
	auxHeld   bool
	auxEpoch  uint32
	auxActive uint32
)

// AuxScope brackets one acquisition of the auxiliary clause mark.  Release
// must be called exactly once.
type AuxScope struct {
	released bool
}

// RequestAux acquires the auxiliary mark.  It panics if the mark is already
// held, since bracketing violations are programming errors.
func RequestAux() *AuxScope {
	auxMu.Lock()
	defer auxMu.Unlock()
	if auxHeld {
		panic("clause: nested aux mark request")
	}
	auxHeld = true
	auxEpoch++
	auxActive = auxEpoch
	return &AuxScope{}
}

// Release returns the auxiliary mark.  Double release panics.
func (s *AuxScope) Release() {
	auxMu.Lock()
	defer auxMu.Unlock()
	if s.released || !auxHeld {
		panic("clause: aux mark released twice")
	}
	s.released = true
	auxHeld = false
}

// Mark marks c within the current scope.  It reports whether the clause was
// already marked.
func (s *AuxScope) Mark(c *C) bool {
	if c.aux == auxActive {
		return true
	}
	c.aux = auxActive
	return false
}
