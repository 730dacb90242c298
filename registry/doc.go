// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry provides create, read, update and delete for the records
that scores refer to.

Uniqueness rules are enforced by the store's unique indexes and reported as
errs.ErrConflict:

  - users: email, phone
  - nomination groups, nominations, producers: name
  - products: (producer, name)
  - parameters, disadvantages: (nomination, name)
  - comments: (text, product, user)

Updates never move a record to another parent: a product keeps its producer
and nomination, a parameter its nomination, a comment its product and author.
Deletes cascade to children, except that deleting a group only detaches its
nominations.
*/
package registry
