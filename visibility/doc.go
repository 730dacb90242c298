// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package visibility decides whether a caller may see other voters' scores.

A caller who has not scored a product sees it as LOCKED so that intermediate
results cannot sway them. Once they have voted, or while nobody has, the
product is OPEN. The decision scans the product's score list; nothing is
cached.

	marker, err := gate.CanView(ctx, productID, caller.UserID)
*/
package visibility
