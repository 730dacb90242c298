// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate computes derived results from stored scores.

Averages are arithmetic means. A product with no scores averages exactly 0
and a nomination with no products has 0 voters; empty inputs are never an
error. Unknown ids are errs.ErrNotFound.

# Voter count

VoterCount is the number of scores on the nomination's first product in
insertion order. All products in a nomination are assumed to be tasted by the
same people.

# Rollups

ProductRollup splits the average by the role snapshot taken at vote time and
adds per-parameter averages. NominationResults computes rollups for every
product with a bounded errgroup.
*/
package aggregate
