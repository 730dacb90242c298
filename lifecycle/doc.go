// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lifecycle drives nominations and nomination groups through their states.

# States

	DRAFT     active=false finished=false
	ACTIVE    active=true  finished=false
	FINISHED  finished=true (active ignored)

# Transitions

	activate    active=true
	deactivate  active=false
	finish      finished=true
	start       finished=false (reopens a finished entity)

Each transition is idempotent and persists the flags before returning the
new status. An unknown id is errs.ErrNotFound. Groups and nominations are
tracked separately; finishing a group does not finish its nominations.

Only ACTIVE nominations accept votes and are listed for consumers and
experts. The store is read on every call.
*/
package lifecycle
